package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/soundfolio/player/internal/catalog"
	"github.com/soundfolio/player/internal/errmsg"
	"github.com/soundfolio/player/internal/session"
	"github.com/soundfolio/player/internal/ui/playerbar"
	"github.com/soundfolio/player/internal/ui/render"
)

const descriptionWidth = 40

var (
	tracksObjects bool
	tracksPrefix  string
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "Print the resolved catalog",
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

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		if tracksObjects {
			return printObjects(cmd, w, backends)
		}

		res := backends.Loader(cfg, log).Load(ctx)
		if len(res.Tracks) == 0 {
			if res.Err != nil {
				return errmsg.Wrap(errmsg.OpCatalogLoad, res.Err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), session.EmptyCatalogMessage)
			return nil
		}

		writeTracks(w, res.Tracks)
		fmt.Fprintf(cmd.ErrOrStderr(), "%d tracks from %s", len(res.Tracks), res.Source)
		if res.Dropped > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), ", %d dropped", res.Dropped)
		}
		fmt.Fprintln(cmd.ErrOrStderr())
		return nil
	},
}

func writeTracks(w io.Writer, tracks []catalog.Track) {
	fmt.Fprintln(w, "#\tNAME\tARTIST\tLENGTH\tDESCRIPTION\tURL")
	for i, t := range tracks {
		length := "-"
		if t.Duration > 0 {
			length = playerbar.FormatDuration(t.Duration)
		}
		artist := t.Artist
		if artist == "" {
			artist = catalog.UnknownArtist
		}
		desc := "-"
		if t.Description != "" {
			desc = render.Truncate(strings.Join(strings.Fields(t.Description), " "), descriptionWidth)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, t.Name, artist, length, desc, t.URL)
	}
}

func printObjects(cmd *cobra.Command, w *tabwriter.Writer, b *session.Backends) error {
	if b.Storage == nil {
		return errors.New("no storage backend configured")
	}
	objects, err := listObjects(cmd, b, tracksPrefix)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED\tAUDIO")
	var total uint64
	for _, o := range objects {
		total += uint64(max(o.Size, 0))
		modified := "-"
		if !o.LastModified.IsZero() {
			modified = humanize.RelTime(o.LastModified, time.Now(), "ago", "from now")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", o.Key, humanize.IBytes(uint64(max(o.Size, 0))), modified, catalog.IsAudioFile(o.Key))
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s objects, %s\n", humanize.Comma(int64(len(objects))), humanize.IBytes(total))
	return nil
}

// listObjects pages through the whole bucket listing.
func listObjects(cmd *cobra.Command, b *session.Backends, prefix string) ([]catalog.Object, error) {
	var all []catalog.Object
	for offset := 0; ; offset += catalog.MaxPageSize {
		page, err := b.Storage.List(cmd.Context(), catalog.ListOptions{
			Prefix: prefix,
			Limit:  catalog.MaxPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, errmsg.Wrap(errmsg.OpStorageList, err)
		}
		all = append(all, page...)
		if len(page) < catalog.MaxPageSize {
			return all, nil
		}
	}
}

func init() {
	tracksCmd.Flags().BoolVar(&tracksObjects, "objects", false, "list raw storage objects instead of the catalog")
	tracksCmd.Flags().StringVar(&tracksPrefix, "prefix", "", "object prefix for --objects")
	rootCmd.AddCommand(tracksCmd)
}
