// Package docker drives the Docker command-line interface.
//
// A [Client] wraps the installed docker binary: every operation is a single
// CLI invocation whose output is parsed, never a direct connection to the
// daemon or a registry. This keeps the tool working against whatever daemon,
// credential helpers, and proxy setup the host's CLI is already configured
// for.
//
// Local state is read with [Client.InspectImage], registry state with
// [Client.InspectManifest]; together they decide whether a pull can be
// skipped. A non-zero exit from inspect simply means the image is absent,
// while other commands report non-zero exits as errors.
//
// Example usage:
//
//	client := docker.New(nil)
//
//	if err := client.Pull(ctx, "nginx:latest", "linux/amd64"); err != nil {
//	    return err
//	}
//
//	if err := client.Save(ctx, "nginx:latest", "nginx.tar"); err != nil {
//	    return err
//	}
package docker
