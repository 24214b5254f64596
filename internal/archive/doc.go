// Packages saved image tars for transfer.
//
// The tar produced by docker save is wrapped in a single-entry zip so it
// survives transfer channels that mangle or reject plain tars, then moved
// into the staging directory. Compression uses the deflate method at maximum
// level, trading CPU time for archives that are usually carried over slow
// links.
package archive
