package math

import (
	"errors"
	"fmt"

	"github.com/drakos74/free-fit/internal/model"
	"gonum.org/v1/gonum/mat"
)

// Fit fits the samples to the polynomial made of the given exponents by least squares.
// The coefficients in the result follow the order of the exponents.
// c[0]x^e[0] + c[1]x^e[1] + c[2]x^e[2] + ...
func Fit(exponents model.Exponents, samples model.Samples, engine Engine) (model.Result, error) {
	switch engine {
	case QR, Cholesky, LU, "":
	default:
		return model.Result{}, fmt.Errorf("unknown engine '%s'", engine)
	}

	n := exponents.Len()
	m := len(samples)
	if n == 0 {
		return model.Result{}, model.EmptyExponentSetErr
	}
	if m == 0 {
		return model.Result{}, model.InsufficientDataErr
	}
	if err := samples.Finite(); err != nil {
		return model.Result{}, err
	}
	if exponents.Duplicates() {
		return model.Result{}, fmt.Errorf("duplicate exponents in %s: %w", exponents, model.SingularSystemErr)
	}
	if n > m {
		return model.Result{}, fmt.Errorf("%d exponents for %d samples: %w", n, m, model.SingularSystemErr)
	}
	if d := samples.Distinct(); d < n {
		return model.Result{}, fmt.Errorf("%d exponents for %d distinct x values: %w", n, d, model.SingularSystemErr)
	}

	x, err := design(exponents, samples)
	if err != nil {
		return model.Result{}, err
	}
	if err := rank(x); err != nil {
		return model.Result{}, err
	}

	_, yy := samples.XY()
	y := mat.NewVecDense(m, yy)

	var c *mat.VecDense
	switch engine {
	case QR, "":
		c, err = solveQR(x, y)
	case Cholesky:
		c, err = solveCholesky(x, y)
	case LU:
		c, err = solveLU(exponents, samples)
	}
	if err != nil {
		return model.Result{}, err
	}

	cc := make([]float64, n)
	for i := 0; i < n; i++ {
		cc[i] = c.AtVec(i)
	}
	if !finite(cc...) {
		return model.Result{}, fmt.Errorf("non-finite coefficients %v: %w", cc, model.NumericOverflowErr)
	}

	v, err := variance(x, c, y)
	if err != nil {
		return model.Result{}, err
	}

	return model.Result{
		Coefficients: cc,
		Variance:     v,
	}, nil
}

// design builds the m x n matrix of the sample x values raised to each exponent.
func design(exponents model.Exponents, samples model.Samples) (*mat.Dense, error) {
	x := mat.NewDense(len(samples), exponents.Len(), nil)
	for i, p := range samples {
		for j := 0; j < exponents.Len(); j++ {
			v := model.Pow(p.X, exponents.At(j))
			if !finite(v) {
				return nil, fmt.Errorf("%v^%d is not finite: %w", p.X, exponents.At(j), model.NumericOverflowErr)
			}
			x.Set(i, j, v)
		}
	}
	return x, nil
}

// rank makes sure the design matrix has full column rank.
func rank(x *mat.Dense) error {
	r, c := x.Dims()
	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDNone); !ok {
		return fmt.Errorf("could not factorize design matrix: %w", model.SingularSystemErr)
	}
	s := svd.Values(nil)
	if len(s) == 0 || s[0] == 0 {
		return fmt.Errorf("design matrix is zero: %w", model.SingularSystemErr)
	}
	tol := float64(max(r, c)) * s[0] * eps
	for i, v := range s {
		if v <= tol {
			return fmt.Errorf("design matrix rank %d < %d: %w", i, c, model.SingularSystemErr)
		}
	}
	return nil
}

func solveQR(x *mat.Dense, y *mat.VecDense) (*mat.VecDense, error) {
	_, n := x.Dims()
	c := mat.NewVecDense(n, nil)

	qr := new(mat.QR)
	qr.Factorize(x)

	if err := qr.SolveVecTo(c, false, y); err != nil {
		return nil, solveErr(err)
	}
	return c, nil
}

func solveCholesky(x *mat.Dense, y *mat.VecDense) (*mat.VecDense, error) {
	_, n := x.Dims()

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a.SetSym(i, j, xtx.At(i, j))
		}
	}
	b := mat.NewVecDense(n, nil)
	b.MulVec(x.T(), y)
	if err := finiteMatrix(a, b); err != nil {
		return nil, err
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, fmt.Errorf("normal equations are not positive definite: %w", model.SingularSystemErr)
	}
	c := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(c, b); err != nil {
		return nil, solveErr(err)
	}
	return c, nil
}

// solveLU builds the normal equations from the power sums sum(x^(e_k+e_j)) and sum(y*x^e_k).
func solveLU(exponents model.Exponents, samples model.Samples) (*mat.VecDense, error) {
	n := exponents.Len()
	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)
	for k := 0; k < n; k++ {
		for j := k; j < n; j++ {
			var s float64
			for _, p := range samples {
				s += model.Pow(p.X, exponents.At(k)+exponents.At(j))
			}
			a.Set(k, j, s)
			a.Set(j, k, s)
		}
		var s float64
		for _, p := range samples {
			s += p.Y * model.Pow(p.X, exponents.At(k))
		}
		b.SetVec(k, s)
	}
	if err := finiteMatrix(a, b); err != nil {
		return nil, err
	}

	var lu mat.LU
	lu.Factorize(a)
	c := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(c, false, b); err != nil {
		return nil, solveErr(err)
	}
	return c, nil
}

// variance is the mean squared residual of the fit.
func variance(x *mat.Dense, c, y *mat.VecDense) (float64, error) {
	m, _ := x.Dims()
	var fitted mat.VecDense
	fitted.MulVec(x, c)

	var residuals mat.VecDense
	residuals.SubVec(y, &fitted)
	sq := mat.Dot(&residuals, &residuals)

	v := sq / float64(m)
	if !finite(v) {
		return 0, fmt.Errorf("non-finite variance: %w", model.NumericOverflowErr)
	}
	return v, nil
}

// solveErr translates the gonum solver failures into the fit taxonomy.
func solveErr(err error) error {
	var cond mat.Condition
	if errors.As(err, &cond) || errors.Is(err, mat.ErrSingular) {
		return fmt.Errorf("could not solve system: %s: %w", err.Error(), model.SingularSystemErr)
	}
	return fmt.Errorf("could not solve system: %w", err)
}

func finiteMatrix(a mat.Matrix, b mat.Vector) error {
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if !finite(a.At(i, j)) {
				return fmt.Errorf("normal equations entry (%d,%d) is not finite: %w", i, j, model.NumericOverflowErr)
			}
		}
	}
	for i := 0; i < b.Len(); i++ {
		if !finite(b.AtVec(i)) {
			return fmt.Errorf("normal equations target %d is not finite: %w", i, model.NumericOverflowErr)
		}
	}
	return nil
}
