// Runs external commands on behalf of the tool.
//
// The [Executer] interface is the single seam between the tool and the host
// system: everything that shells out (the container CLI, the at scheduler)
// takes an Executer so tests can substitute a fake.
package executer
