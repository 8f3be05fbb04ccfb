package main

import (
	"fmt"
	"path"
	"text/tabwriter"

	"github.com/andresuchdata/furnicast/backend-go/internal/config"
	"github.com/andresuchdata/furnicast/backend-go/internal/storage"
	"github.com/urfave/cli/v2"
)

func exportsCommand() *cli.Command {
	return &cli.Command{
		Name:  "exports",
		Usage: "List the stored forecast exports of a day or download one",
		Flags: []cli.Flag{
			newAsOfFlag(),
			&cli.StringFlag{
				Name:  "download",
				Usage: "Object key to download",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Download destination, defaults to the key's file name",
			},
		},
		Action: runExports,
	}
}

// runExports lists the stored exports of one day, or fetches one with --download.
func runExports(c *cli.Context) error {
	cfg := config.Load().Storage
	store, err := storage.New(c.Context, cfg)
	if err != nil {
		return err
	}

	if key := c.String("download"); key != "" {
		dest := c.String("out")
		if dest == "" {
			dest = path.Base(key)
		}
		if err := store.DownloadObject(c.Context, key, dest); err != nil {
			return fmt.Errorf("failed to download %s: %w", key, err)
		}
		fmt.Fprintf(c.App.Writer, "downloaded %s to %s\n", key, dest)
		return nil
	}

	prefix := path.Dir(storage.ForecastExportKey(cfg.ExportPrefix, asOf(c)))
	objects, err := store.ListObjects(c.Context, prefix)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		fmt.Fprintf(c.App.Writer, "no exports under %s\n", prefix)
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED")
	for _, o := range objects {
		fmt.Fprintf(w, "%s\t%d\t%s\n", o.Key, o.Size, o.LastModified.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
