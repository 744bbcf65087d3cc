// Package wire implements the legacy length-prefixed text protocol of the fitting executable.
//
// A request is a stream of whitespace separated tokens:
//
//	<exponent count> <sample count> <exponent>... (<x> <y>)...
//
// A successful response is a single line of ';' separated values,
// holding the coefficients in reverse exponent order followed by the variance.
package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/drakos74/free-fit/internal/model"
)

const (
	separator = ";"
	// maxPrealloc bounds the allocation driven by the header counts before the tokens arrive.
	maxPrealloc = 1 << 12
)

var (
	MissingHeaderErr = errors.New("missing header")
	TruncatedErr     = errors.New("truncated stream")
)

// Request is a decoded fit request.
type Request struct {
	Exponents model.Exponents
	Samples   model.Samples
}

// DecodeRequest reads a full request from the given stream.
func DecodeRequest(r io.Reader) (Request, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	// next returns io.EOF only at the end of the stream, any read failure is reported as is.
	next := func() (string, error) {
		if scanner.Scan() {
			return scanner.Text(), nil
		}
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("could not read request: %w", err)
		}
		return "", io.EOF
	}

	rawExponentCount, err := next()
	if err == io.EOF {
		return Request{}, fmt.Errorf("exponent count: %w", MissingHeaderErr)
	}
	if err != nil {
		return Request{}, err
	}
	rawSampleCount, err := next()
	if err == io.EOF {
		return Request{}, fmt.Errorf("sample count: %w", MissingHeaderErr)
	}
	if err != nil {
		return Request{}, err
	}
	exponentCount, err := strconv.Atoi(rawExponentCount)
	if err != nil {
		return Request{}, fmt.Errorf("could not parse exponent count '%s': %w", rawExponentCount, MissingHeaderErr)
	}
	sampleCount, err := strconv.Atoi(rawSampleCount)
	if err != nil || sampleCount < 0 {
		return Request{}, fmt.Errorf("could not parse sample count '%s': %w", rawSampleCount, MissingHeaderErr)
	}

	tokens := make([]string, 0, min(max(exponentCount, 0), maxPrealloc))
	for i := 0; i < exponentCount; i++ {
		token, err := next()
		if err == io.EOF {
			return Request{}, fmt.Errorf("expected %d exponents but got %d: %w", exponentCount, i, TruncatedErr)
		}
		if err != nil {
			return Request{}, err
		}
		tokens = append(tokens, token)
	}
	exponents, err := model.ParseExponents(rawExponentCount, tokens)
	if err != nil {
		return Request{}, err
	}

	if sampleCount == 0 {
		return Request{}, model.InsufficientDataErr
	}

	samples := make(model.Samples, 0, min(sampleCount, maxPrealloc))
	for i := 0; i < sampleCount; i++ {
		var p [2]float64
		for j := range p {
			token, err := next()
			if err == io.EOF {
				return Request{}, fmt.Errorf("expected %d samples but got %d: %w", sampleCount, i, TruncatedErr)
			}
			if err != nil {
				return Request{}, err
			}
			f, err := strconv.ParseFloat(token, 64)
			if err != nil {
				return Request{}, fmt.Errorf("could not parse sample token '%s' at %d: %w", token, i, model.MalformedSampleErr)
			}
			p[j] = f
		}
		samples = append(samples, model.Point{X: p[0], Y: p[1]})
	}

	return Request{
		Exponents: exponents,
		Samples:   samples,
	}, nil
}

// EncodeRequest writes the request in the legacy token format.
// Every sample value goes on its own line.
func EncodeRequest(w io.Writer, request Request) error {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d %d", request.Exponents.Len(), len(request.Samples)))
	for _, e := range request.Exponents.Values() {
		b.WriteString(fmt.Sprintf(" %d", e))
	}
	b.WriteString("\n")
	for _, p := range request.Samples {
		b.WriteString(strconv.FormatFloat(p.X, 'g', -1, 64))
		b.WriteString("\n")
		b.WriteString(strconv.FormatFloat(p.Y, 'g', -1, 64))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// EncodeResponse writes the result as the legacy response line.
// Coefficients are written highest index first and the variance goes last.
// A negative precision writes the shortest exact representation.
func EncodeResponse(w io.Writer, result model.Result, digits int) error {
	n := len(result.Coefficients)
	fields := make([]string, 0, n+1)
	for i := n - 1; i >= 0; i-- {
		fields = append(fields, format(result.Coefficients[i], digits))
	}
	vDigits := digits
	if digits >= 0 {
		vDigits = 2 * digits
	}
	fields = append(fields, format(result.Variance, vDigits))
	_, err := io.WriteString(w, strings.Join(fields, separator))
	return err
}

// DecodeResponse parses a legacy response line back into a result in exponent order.
func DecodeResponse(r io.Reader) (model.Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return model.Result{}, fmt.Errorf("could not read response: %w", err)
	}
	line := strings.TrimSpace(string(b))
	if line == "" {
		return model.Result{}, fmt.Errorf("empty response: %w", TruncatedErr)
	}
	fields := strings.Split(line, separator)
	if len(fields) < 2 {
		return model.Result{}, fmt.Errorf("expected at least one coefficient and the variance in '%s': %w", line, TruncatedErr)
	}

	values := make([]float64, len(fields))
	for i, field := range fields {
		f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return model.Result{}, fmt.Errorf("could not parse response field '%s': %w", field, model.MalformedSampleErr)
		}
		values[i] = f
	}

	n := len(values) - 1
	cc := make([]float64, n)
	for i := 0; i < n; i++ {
		cc[i] = values[n-1-i]
	}
	return model.Result{
		Coefficients: cc,
		Variance:     values[n],
	}, nil
}

func format(f float64, digits int) string {
	if digits < 0 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return model.Format(model.Round(f, digits), digits)
}
