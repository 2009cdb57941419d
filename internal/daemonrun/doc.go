// Package daemonrun wires config, logging, the snapshot source, and the report
// cache into a foreground daemon process. Both gisflowd and `gisflow serve`
// run through Run.
package daemonrun
