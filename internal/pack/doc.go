// Package pack orchestrates the image packaging pipeline.
//
// A run turns one image reference into one staged archive: resolve the pull
// reference (optionally through a registry mirror), skip the pull when the
// local copy already matches the registry for the requested platform, save
// the image as a tar, wrap it in a zip, move it to the staging directory,
// and finally remove the local image. Removal falls back to a deferred at
// job when containers still use the image or the daemon refuses.
//
// Container operations are delegated through the [Runtime] interface and
// deferred removal through [Deferrer], so the pipeline itself never shells
// out directly.
//
// Example usage:
//
//	result, err := pack.Run(ctx, docker.New(nil), schedule.New(nil), pack.Options{
//	    Ref:     ref,
//	    Arch:    "arm64",
//	    Staging: "/srv/images",
//	})
//	if err != nil {
//	    return err
//	}
package pack
