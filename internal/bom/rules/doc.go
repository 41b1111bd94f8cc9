// Package rules provides the concrete Rule implementations of the BOM engine.
//
// Each rule derives one group of line items (e.g. modules, end clamps, dc cable)
// or one class of validation warnings. Rules are composed via bom.Engine; Derive
// runs the whole pipeline from a configuration to a consolidated BOM.
package rules
