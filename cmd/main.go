package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/willie68/go_heightmap/internal/config"
	"github.com/willie68/go_heightmap/internal/logging"
	"github.com/willie68/go_heightmap/internal/model"
	"github.com/willie68/go_heightmap/internal/terrain"
	"github.com/willie68/go_heightmap/internal/tiles"
	"github.com/willie68/go_heightmap/internal/utils/measurement"
	"github.com/willie68/go_heightmap/pkg/fileutils"
	"golang.org/x/sync/errgroup"
)

var (
	log         *slog.Logger
	configFile  string
	showVersion bool
	name        string
	outDir      string
	workers     int
)

func init() {
	flag.BoolVarP(&showVersion, "version", "v", false, "showing the version")
	flag.StringVarP(&configFile, "config", "c", "config.yaml", "this is the path and filename to the config file")
	flag.StringVarP(&name, "heightmap", "m", "", "name of the heightmap in the config")
	flag.StringVarP(&outDir, "out", "o", ".", "output folder for the tile images")
	flag.IntVarP(&workers, "workers", "w", 4, "number of parallel downloads")
	flag.Usage = func() {
		fmt.Printf("Usage of %s: [flags] z/x/y...\n", os.Args[0])
		fmt.Println("loads the given tiles of a heightmap, writes the extracted pixels as png and prints the elevation range")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	if showVersion {
		fmt.Println(config.NewVersion().String())
		fmt.Println("more on https://github.com/willie68/go_heightmap")
		os.Exit(0)
	}
	os.Exit(run(flag.Args()))
}

// run dumps the tiles and returns the exit code. Tile files and log outputs
// are closed on every return.
func run(args []string) int {
	err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\r\n", err)
		return 1
	}
	if err := logging.Setup(*config.Logging()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\r\n", err)
	}
	defer logging.Close()
	log = logging.New("tiledump")

	hms := config.Heightmaps()
	if _, ok := hms[name]; !ok {
		fmt.Fprintf(os.Stderr, "unknown heightmap %q\r\n", name)
		return 1
	}
	tls, err := parseTiles(args)
	if err != nil || len(tls) == 0 {
		fmt.Fprintf(os.Stderr, "no valid tiles given: %v\r\n", err)
		flag.Usage()
		return 1
	}
	if !fileutils.IsDir(outDir) {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			log.Error(fmt.Sprintf("can't create output folder: %v", err))
			return 1
		}
	}

	ts, err := tiles.NewService(tiles.ConfigMap{name: hms[name]}, measurement.New(false), nil)
	if err != nil {
		log.Error(fmt.Sprintf("error on init heightmap: %v", err))
		return 1
	}
	defer func() {
		if err := ts.Shutdown(); err != nil {
			log.Error(fmt.Sprintf("error on close heightmap: %v", err))
		}
	}()
	info, _ := ts.Info(name)
	enc, _ := terrain.ParseEncoding(info.Encoding)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(workers, 1))
	for _, tile := range tls {
		g.Go(func() error {
			return dump(ctx, ts, enc, tile)
		})
	}
	if err := g.Wait(); err != nil {
		log.Error(fmt.Sprintf("error loading tiles: %v", err))
		return 1
	}
	return 0
}

func dump(ctx context.Context, ts *tiles.Service, enc terrain.Encoding, tile model.Tile) error {
	ok, _ := ts.TileDataAvailable(name, tile)
	if !ok {
		fmt.Printf("%d/%d/%d: not available\n", tile.Z, tile.X, tile.Y)
		return nil
	}
	pb, err := ts.TilePixels(ctx, name, tile)
	if err != nil {
		return fmt.Errorf("tile %d/%d/%d: %w", tile.Z, tile.X, tile.Y, err)
	}
	if pb == nil {
		fmt.Printf("%d/%d/%d: no data\n", tile.Z, tile.X, tile.Y)
		return nil
	}
	fn := filepath.Join(outDir, fmt.Sprintf("%s_%d_%d_%d.png", fileutils.ValidPathName(name), tile.Z, tile.X, tile.Y))
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	img := &image.NRGBA{Pix: pb.Pix, Stride: pb.Width * 4, Rect: image.Rect(0, 0, pb.Width, pb.Height)}
	if err := png.Encode(f, img); err != nil {
		return err
	}
	st := terrain.ElevationStats(enc.Elevations(pb))
	fmt.Printf("%d/%d/%d: %s, min %.1fm, max %.1fm, mean %.1fm\n", tile.Z, tile.X, tile.Y, fn, st.Min, st.Max, st.Mean)
	return nil
}

func parseTiles(args []string) ([]model.Tile, error) {
	tls := make([]model.Tile, 0, len(args))
	for _, a := range args {
		p := strings.Split(strings.Trim(a, "/"), "/")
		if len(p) != 3 {
			return nil, fmt.Errorf("tile %q is not z/x/y", a)
		}
		var c [3]int
		for i, s := range p {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("tile %q: %w", a, err)
			}
			c[i] = v
		}
		tile := model.Tile{Z: c[0], X: c[1], Y: c[2]}
		if !tile.Valid() {
			return nil, fmt.Errorf("invalid tile coordinates %q", a)
		}
		tls = append(tls, tile)
	}
	return tls, nil
}
