package math

import (
	"fmt"
	"strings"
)

// Engine selects the linear solver used for the least squares system.
type Engine string

const (
	// QR solves the over-determined system on the design matrix directly.
	QR Engine = "qr"
	// Cholesky factorizes the normal equations matrix.
	Cholesky Engine = "cholesky"
	// LU accumulates the normal equations from power sums and solves them with pivoted elimination.
	LU Engine = "lu"
)

// DefaultEngine is used when no engine is requested.
const DefaultEngine = QR

// Engines lists all the available solvers.
var Engines = []Engine{QR, Cholesky, LU}

// ParseEngine resolves the engine name. An empty name resolves to the DefaultEngine.
func ParseEngine(s string) (Engine, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultEngine, nil
	}
	e := Engine(strings.ToLower(strings.TrimSpace(s)))
	for _, engine := range Engines {
		if e == engine {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown engine '%s'", s)
}
