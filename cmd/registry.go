package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soundfolio/player/internal/catalog"
	"github.com/soundfolio/player/internal/errmsg"
	"github.com/soundfolio/player/internal/player"
	"github.com/soundfolio/player/internal/registry"
	"github.com/soundfolio/player/internal/session"
)

// maxProbeBytes bounds how much of an object import reads for tags.
const maxProbeBytes = 64 << 20

var (
	addTitle       string
	addArtist      string
	addFile        string
	addDuration    float64
	addDescription string

	importPrefix string
	importDryRun bool
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the track registry",
}

var registryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add one track to the registry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := setup(os.Stderr); err != nil {
			return err
		}
		backends, err := session.OpenBackends(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer backends.Close()
		if backends.Registry == nil {
			return errors.New("no registry configured")
		}

		ids, err := backends.Registry.Add(cmd.Context(), registry.NewSong{
			Title:       addTitle,
			Filename:    addFile,
			Artist:      addArtist,
			Duration:    addDuration,
			Description: addDescription,
		})
		if err != nil {
			return errmsg.Wrap(errmsg.OpRegistryAdd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %q as #%d\n", addTitle, ids[0])
		return nil
	},
}

var registryImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Register every audio object of the storage bucket that is not registered yet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := setup(os.Stderr); err != nil {
			return err
		}
		ctx := cmd.Context()
		backends, err := session.OpenBackends(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer backends.Close()
		if backends.Registry == nil || backends.Storage == nil {
			return errors.New("import needs both a registry and a storage backend")
		}

		rows, err := backends.Registry.Rows(ctx)
		if err != nil {
			return errmsg.Wrap(errmsg.OpRegistryRead, err)
		}
		known := make(map[string]bool, len(rows))
		for _, r := range rows {
			known[r.Filename] = true
		}

		objects, err := listObjects(cmd, backends, importPrefix)
		if err != nil {
			return err
		}

		var songs []registry.NewSong
		var bytesRead uint64
		for _, o := range objects {
			if !catalog.IsAudioFile(o.Key) || known[o.Key] {
				continue
			}
			song, n := probeObject(cmd, backends, o)
			bytesRead += uint64(n)
			songs = append(songs, song)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", o.Key, song.Title, song.Artist)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "%d new tracks (%s read)\n", len(songs), humanize.IBytes(bytesRead))
		if importDryRun || len(songs) == 0 {
			return nil
		}
		if _, err := backends.Registry.Add(ctx, songs...); err != nil {
			return errmsg.Wrap(errmsg.OpRegistryImport, err)
		}
		return nil
	},
}

// probeObject builds a registry row for o from its tags, falling back to
// the sanitized object name when the object cannot be read.
func probeObject(cmd *cobra.Command, b *session.Backends, o catalog.Object) (registry.NewSong, int) {
	song := registry.NewSong{Title: catalog.SanitizeName(o.Key), Filename: o.Key}

	rc, err := b.Storage.Open(cmd.Context(), o.Key)
	if err != nil {
		log.Warn("open object", zap.String("key", o.Key), zap.Error(err))
		return song, 0
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxProbeBytes))
	if err != nil {
		log.Warn("read object", zap.String("key", o.Key), zap.Error(err))
		return song, len(data)
	}

	info, err := player.Probe(o.Key, data)
	if err != nil {
		log.Debug("probe object", zap.String("key", o.Key), zap.Error(err))
	}
	if info.Title != "" {
		song.Title = info.Title
	}
	song.Artist = info.Artist
	song.Duration = info.Duration.Seconds()
	return song, len(data)
}

func init() {
	registryAddCmd.Flags().StringVar(&addTitle, "title", "", "track title")
	registryAddCmd.Flags().StringVar(&addArtist, "artist", "", "artist name")
	registryAddCmd.Flags().StringVar(&addFile, "file", "", "object key in the storage bucket")
	registryAddCmd.Flags().Float64Var(&addDuration, "duration", 0, "length in seconds")
	registryAddCmd.Flags().StringVar(&addDescription, "description", "", "free text")
	_ = registryAddCmd.MarkFlagRequired("title")
	_ = registryAddCmd.MarkFlagRequired("file")

	registryImportCmd.Flags().StringVar(&importPrefix, "prefix", "", "only import objects under this prefix")
	registryImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "print what would be imported")

	registryCmd.AddCommand(registryAddCmd, registryImportCmd)
	rootCmd.AddCommand(registryCmd)
}
