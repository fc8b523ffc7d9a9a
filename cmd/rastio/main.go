package main

import (
	"fmt"
	"os"

	"github.com/wgdzlh/rastlib"

	"github.com/spf13/cobra"
)

var (
	band       int
	targetSrid int
	method     string
	resX       float64
	resY       float64
	compress   string
	mergeBy    string
)

func infoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <raster>",
		Short: "print raster metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := rastlib.RasterMetadata(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("path:      %s\n", meta.Path)
			fmt.Printf("size:      %d x %d, %d band(s)\n", meta.Width, meta.Height, meta.Bands)
			fmt.Printf("dtype:     %s\n", meta.DataType)
			fmt.Printf("transform: %v\n", meta.Transform)
			if meta.NoData != nil {
				fmt.Printf("nodata:    %g\n", *meta.NoData)
			}
			fmt.Printf("srs:       %s\n", meta.SRSWkt)
			return nil
		},
	}
	return cmd
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "reproject/resample a raster and write it out",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rastlib.LoadRaster(args[0], rastlib.Band(band))
			if err != nil {
				return err
			}
			if targetSrid > 0 {
				if r, err = r.ToCRS(targetSrid, rastlib.ResampleMethod(method)); err != nil {
					return err
				}
			}
			if resX > 0 {
				ry := resY
				if ry <= 0 {
					ry = resX
				}
				opts := rastlib.DefaultResampleOptions()
				opts.Method = rastlib.ResampleMethod(method)
				opts.TargetResX = resX
				opts.TargetResY = ry
				if r, err = r.Resample(opts); err != nil {
					return err
				}
			}
			var so []rastlib.SaveOption
			if compress != "" {
				so = append(so, rastlib.Compress(compress))
			}
			return r.Save(args[1], so...)
		},
	}
	cmd.Flags().IntVar(&band, "band", 1, "band to read")
	cmd.Flags().IntVar(&targetSrid, "t-srs", 0, "target EPSG code")
	cmd.Flags().StringVar(&method, "resample", string(rastlib.ResampleNearest), "resampling method")
	cmd.Flags().Float64Var(&resX, "tr-x", 0, "target x resolution")
	cmd.Flags().Float64Var(&resY, "tr-y", 0, "target y resolution (defaults to tr-x)")
	cmd.Flags().StringVar(&compress, "compress", "", "GTiff compression (e.g. LZW, DEFLATE)")
	return cmd
}

func mosaicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mosaic <dst> <src>...",
		Short: "merge rasters onto a common grid",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs := make([]rastlib.Raster, 0, len(args)-1)
			for _, p := range args[1:] {
				r, err := rastlib.LoadRaster(p, rastlib.Band(band))
				if err != nil {
					return err
				}
				rs = append(rs, r)
			}
			out, err := rastlib.Merge(rs, rastlib.MergeMethod(mergeBy))
			if err != nil {
				return err
			}
			return out.Save(args[0])
		},
	}
	cmd.Flags().IntVar(&band, "band", 1, "band to read")
	cmd.Flags().StringVar(&mergeBy, "method", string(rastlib.MergeFirst), "merge method (first/last/min/max/sum/count)")
	return cmd
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot <src> <dst.png>",
		Short: "render a raster heatmap",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rastlib.LoadRaster(args[0], rastlib.Band(band))
			if err != nil {
				return err
			}
			return r.SavePlot(args[1])
		},
	}
	cmd.Flags().IntVar(&band, "band", 1, "band to read")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:          "rastio",
		Short:        "single band raster utilities",
		SilenceUsage: true,
	}
	root.AddCommand(infoCmd(), convertCmd(), mosaicCmd(), plotCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
