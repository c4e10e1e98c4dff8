package playback

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundfolio/player/internal/catalog"
)

func TestSubscription_DeliversEachKind(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()

		sub.sendState(StateChange{Previous: StateIdle, Current: StatePlaying})
		sub.sendTrack(TrackChange{Index: 1})
		sub.sendPosition(PositionChange{Position: 30 * time.Second})
		sub.sendPlaylist(PlaylistChange{Index: 2, Tracks: []catalog.Track{{Name: "Demo"}}})
		sub.sendError(ErrorEvent{Index: 3, Message: "boom"})

		assert.Equal(t, StatePlaying, (<-sub.StateChanged).Current)
		assert.Equal(t, 1, (<-sub.TrackChanged).Index)
		assert.Equal(t, 30*time.Second, (<-sub.PositionChanged).Position)

		pl := <-sub.PlaylistChanged
		require.Len(t, pl.Tracks, 1)
		assert.Equal(t, "Demo", pl.Tracks[0].Name)

		er := <-sub.Error
		assert.Equal(t, ErrorEvent{Index: 3, Message: "boom"}, er)

		sub.close()
		<-sub.Done
	})
}

func TestOffer_DropsWhenFull(t *testing.T) {
	ch := make(chan int, 2)
	assert.True(t, offer(ch, 1))
	assert.True(t, offer(ch, 2))
	assert.False(t, offer(ch, 3))
	assert.Equal(t, 1, <-ch)
}

func TestSubscription_SlowListenerKeepsOldest(t *testing.T) {
	sub := newSubscription()
	for i := range eventBufferSize + 5 {
		sub.sendPosition(PositionChange{Position: time.Duration(i) * time.Second})
	}
	assert.Len(t, sub.PositionChanged, eventBufferSize)
	assert.Equal(t, time.Duration(0), (<-sub.PositionChanged).Position)
}
