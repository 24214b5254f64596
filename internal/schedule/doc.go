// Queues deferred commands through the host's at(1) daemon.
//
// Used when an image cannot be removed immediately, typically because a
// container still references it: removal is handed to at so it happens long
// after the tool has exited.
package schedule
