package driver

import (
	"treant/internal/declgen"
	"treant/internal/diag"
	"treant/internal/initgen"
	"treant/internal/ir"
	"treant/internal/observ"
	"treant/internal/origin"
)

// Unit is one module processed as a whole: phase 2 never starts before
// phase 1 finished for every class of Module.
type Unit struct {
	Module  *ir.Module
	Origins *origin.Table
	Bag     *diag.Bag
	Decl    declgen.Result
	Init    initgen.Result
	Timings observ.Report
	// Err is the *diag.FatalError that aborted phase 2, if any.
	Err error
}

// Fatal returns the error that aborted the unit.
func (u *Unit) Fatal() (*diag.FatalError, bool) {
	if u == nil || u.Err == nil {
		return nil, false
	}
	return diag.AsFatal(u.Err)
}

// Failed reports whether the unit was aborted or reported errors.
func (u *Unit) Failed() bool {
	return u.Err != nil || u.Bag.HasErrors()
}
