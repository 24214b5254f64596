// Interactive menus for values not supplied on the command line.
//
// Every prompt loops until it gets a usable answer, so callers only ever see
// a valid selection or [ErrInputClosed] when stdin is exhausted.
package prompt
