/*

Analysis of one shader group

Layer Dump Text ->
	parse ->
Layer Instances (ir) ->
	analyze ->
Classification Tables (uniform/varying per symbol, masking per op) ->
	lowering (external) ->
Batched Machine Code

Each layer is analyzed with its own context; layers of a group may be
analyzed in parallel by the caller.

*/
package compiler
