// Package workflow derives where each recorded document sits in the GIS
// processing workflow.
//
// The evaluation is a pure function of a document, its related rows, the
// global PIN clearance index, and the current time. Gates run in a fixed
// order (Review, Pending T/C, Devnet, Fabric) and the first unmet gate decides
// the stage; a document that clears every gate is Done and drops out of the
// output. Nothing here performs I/O or mutates its inputs, so running the same
// evaluation twice over the same snapshot always yields identical records.
package workflow
