// Package fiber implements the work-unit tree the reconciler traverses.
//
// A Fiber is one node's record for a single render pass. Fibers are linked
// child/sibling/parent so a traversal can stop after any fiber and resume
// later from a single pointer (see Next). Each fiber may point at its
// Alternate, the fiber that occupied the same position in the previously
// committed tree.
//
// Reconcile pairs new logical children with the alternate's children by
// position. A kind match reuses the old host handle and is tagged
// EffectUpdate; anything else is tagged EffectCreate and the old fiber, if
// any, is reported as a deletion. Reordering a list therefore recreates
// nodes; there is no keyed matching.
//
// DiffAttrs computes the attribute and listener delta between two passes
// using shallow equality only.
package fiber
