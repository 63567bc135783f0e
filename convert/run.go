// Package convert drives the layout of an XSL-FO document from the command
// line: loading, element list construction, pagination and output.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"foflow/area"
	"foflow/common"
	"foflow/config"
	"foflow/fo"
	"foflow/layout/breaker"
	"foflow/layout/build"
	"foflow/layout/diag"
	"foflow/state"
	"foflow/utils/debug"
)

// Run is the action of the layout command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("layout")

	src, dst, err := arguments(cmd, log)
	if err != nil {
		return err
	}

	format, err := common.ParseOutputFmt(cmd.String("format"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to text", zap.Error(err))
		format = common.OutputFmtText
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return layoutFile(ctx, src, dst, format, log)
}

// Elements is the action of the elements command.
func Elements(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("elements")

	src, dst, err := arguments(cmd, log)
	if err != nil {
		return err
	}
	return dumpElements(ctx, src, dst, log)
}

func arguments(cmd *cli.Command, log *zap.Logger) (src, dst string, err error) {
	src = cmd.Args().Get(0)
	if len(src) == 0 {
		return "", "", errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return "", "", err
	}
	if dst = cmd.Args().Get(1); len(dst) != 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return "", "", err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	return src, dst, nil
}

// buildDocument loads the source and builds its flow list. In debug mode the
// source and the element dump go to the report.
func buildDocument(ctx context.Context, src string, dc *diag.Collector, log *zap.Logger) (*build.Document, error) {
	env := state.EnvFromContext(ctx)

	tree, err := fo.LoadFile(src, env.LoadOptions(), log)
	if err != nil {
		return nil, fmt.Errorf("unable to load %s: %w", src, err)
	}
	if err := env.Rpt.StoreCopy("source/"+config.ReportName(filepath.Base(src)), src); err != nil {
		log.Warn("Unable to store source in the report", zap.Error(err))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opt, err := env.BuildOptions()
	if err != nil {
		return nil, err
	}
	doc, err := build.New(tree, opt, dc, log).Document()
	if err != nil {
		return nil, fmt.Errorf("unable to build element list: %w", err)
	}

	if env.Rpt != nil {
		tw := debug.NewTreeWriter()
		doc.Dump(tw)
		env.Rpt.StoreData("elements.txt", []byte(tw.String()))
	}
	return doc, nil
}

// layoutFile lays out src and writes the area tree in the requested format to
// the destination, standard output when dst is empty.
func layoutFile(ctx context.Context, src, dst string, format common.OutputFmt, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	dc := diag.New()
	defer dc.Log(log)

	doc, err := buildDocument(ctx, src, dc, log)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tree, err := area.Paginate(doc, env.PaginateOptions(), dc, log)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := render(tree, format)
	if err != nil {
		return err
	}
	env.Rpt.StoreData("areas"+format.Ext(), data)

	out := outputPath(src, dst, format, env)
	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	log.Debug("Area tree written", zap.String("file", out), zap.Int("pages", len(tree.Pages)))
	return nil
}

func render(tree *area.Tree, format common.OutputFmt) ([]byte, error) {
	switch format {
	case common.OutputFmtYaml:
		return tree.YAML()
	default:
		tw := debug.NewTreeWriter()
		tree.Dump(tw)
		return []byte(tw.String()), nil
	}
}

// dumpElements writes the resolved flow list, paragraph and combination
// details and the page breakpoints.
func dumpElements(ctx context.Context, src, dst string, log *zap.Logger) (err error) {
	env := state.EnvFromContext(ctx)

	dc := diag.New()
	defer dc.Log(log)

	doc, err := buildDocument(ctx, src, dc, log)
	if err != nil {
		return err
	}
	bps, err := area.PageBreaks(doc, env.PaginateOptions(), dc)
	if err != nil {
		return err
	}

	tw := debug.NewTreeWriter()
	doc.Dump(tw)
	tw.Line(0, "pages: %d", len(bps))
	breaker.Dump(tw, 1, bps)

	if dst == "" {
		_, err = tw.WriteTo(os.Stdout)
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("unable to create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = tw.WriteTo(f)
	return err
}
