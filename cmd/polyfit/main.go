// Command polyfit fits a polynomial to the samples of a legacy text request.
//
//	polyfit [flags] [exponent-count sample-count exponent...] < samples
//
// Positional arguments are read ahead of stdin, so the whole request can also be piped in.
// On success the response line is written to stdout and the exit status is 0.
// Any other exit status means there is no fit.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/drakos74/free-fit/internal/math"
	"github.com/drakos74/free-fit/internal/model"
	"github.com/drakos74/free-fit/internal/wire"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const plotWidth = 60

func init() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr, NoColor: true})

	flags := flag.NewFlagSet("polyfit", flag.ContinueOnError)
	flags.SetOutput(stderr)
	digits := flags.Int("digits", -1, "decimal places of the coefficients, the variance keeps twice as many (negative for no rounding)")
	engine := flags.String("engine", string(math.DefaultEngine), "solver to use: qr, cholesky or lu")
	plot := flags.Bool("plot", false, "plot the fitted polynomial on stderr")
	debug := flags.Bool("debug", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		return int(wire.MissingArguments)
	}
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	e, err := math.ParseEngine(*engine)
	if err != nil {
		log.Error().Err(err).Msg("invalid engine")
		return int(wire.MissingArguments)
	}

	in := stdin
	if flags.NArg() > 0 {
		in = io.MultiReader(strings.NewReader(strings.Join(flags.Args(), " ")+"\n"), stdin)
	}

	request, result, err := wire.Handle(in, stdout, e, *digits)
	status := wire.StatusOf(err)
	if err != nil {
		log.Error().Err(err).Int("status", int(status)).Msg(status.String())
		return int(status)
	}

	p := result.Round(*digits).Polynomial(request.Exponents)
	log.Debug().
		Str("engine", string(e)).
		Str("exponents", request.Exponents.String()).
		Int("samples", len(request.Samples)).
		Float64("variance", result.Variance).
		Str("polynomial", p.String()).
		Msg("fit")

	if *plot {
		render(stderr, request.Samples, p)
	}
	return int(wire.OK)
}

// render plots the fitted polynomial over the range of the sample x values.
func render(w io.Writer, samples model.Samples, p model.Polynomial) {
	xx, _ := samples.XY()
	sort.Float64s(xx)
	from, to := xx[0], xx[len(xx)-1]
	caption := fmt.Sprintf("%s on [%g, %g]", p.String(), from, to)
	step := (to - from) / float64(plotWidth-1)
	yy := make([]float64, plotWidth)
	flat := true
	for i := range yy {
		yy[i] = p.Eval(from + step*float64(i))
		flat = flat && yy[i] == yy[0]
	}
	if flat {
		// nothing to scale the graph on
		fmt.Fprintln(w, caption)
		return
	}
	graph := asciigraph.Plot(yy,
		asciigraph.Height(12),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
	fmt.Fprintln(w, graph)
}
