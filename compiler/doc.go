/*

Process of analysis

Graph Text ->
	parse ->
Graph (ir) + missingness marks ->
	fixpoint (df) ->
Constant Lattice per value ->
	print ->
Annotated Graph Text

The constant propagation is missingness aware: a value is only folded
when no operand may be missing, and folding is simulated out of place,
the graph is never rewritten.

*/
package compiler
