package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// What the local daemon knows about an image reference.
type LocalImage struct {
	Exists       bool            // Whether the reference resolves locally at all.
	RepoDigests  []digest.Digest // Content digests recorded when the image was pulled.
	OS           string          // Operating system the image was built for.
	Architecture string          // CPU architecture the image was built for.
	Variant      string          // Architecture variant (e.g. "v7"), often empty.
}

// One manifest record reported by the registry for a reference.
type RemoteDescriptor struct {
	Digest   digest.Digest     // Digest of the manifest.
	Platform *ocispec.Platform // Platform the manifest targets, nil when unreported.
}

// Mirrors one record of `docker manifest inspect -v` output.
type manifestEntry struct {
	Ref        string             `json:"Ref"`
	Descriptor ocispec.Descriptor `json:"Descriptor"`
}

// Asks the local daemon about ref.
//
// A failing inspect means the reference is unknown locally; that is reported
// through the Exists field, not as an error. Errors are reserved for the CLI
// itself being unrunnable.
func (c *Client) InspectImage(ctx context.Context, ref string) (*LocalImage, error) {
	res, err := c.exec.Execute(ctx, c.bin, "inspect", ref)
	if err != nil {
		return nil, fmt.Errorf("%w: inspect %s: %w", ErrDocker, ref, err)
	}
	if res.ExitCode != 0 {
		return &LocalImage{}, nil
	}
	return parseInspect(res.Stdout), nil
}

// Extracts the fields of interest from inspect's JSON array output.
func parseInspect(out string) *LocalImage {
	root := gjson.Get(out, "0")

	img := &LocalImage{
		Exists:       true,
		OS:           root.Get("Os").String(),
		Architecture: root.Get("Architecture").String(),
		Variant:      root.Get("Variant").String(),
	}

	// RepoDigests entries look like "name@sha256:..."; only the digest part
	// is comparable across differently named pulls of the same content.
	for _, entry := range root.Get("RepoDigests").Array() {
		if _, raw, ok := strings.Cut(entry.String(), "@"); ok {
			if d, err := digest.Parse(raw); err == nil {
				img.RepoDigests = append(img.RepoDigests, d)
			}
		}
	}

	return img
}

// Queries the registry for the manifests available under ref, without
// pulling anything.
//
// The verbose manifest output is a JSON array for multi-platform images and
// a single object for plain ones; both shapes are handled.
func (c *Client) InspectManifest(ctx context.Context, ref string) ([]RemoteDescriptor, error) {
	res, err := c.run(ctx, "manifest inspect "+ref, "manifest", "inspect", "-v", ref)
	if err != nil {
		return nil, err
	}
	return parseManifest(res.Stdout)
}

func parseManifest(out string) ([]RemoteDescriptor, error) {
	data := []byte(strings.TrimSpace(out))

	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		var single manifestEntry
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("%w: unexpected manifest inspect output: %w", ErrDocker, err)
		}
		entries = []manifestEntry{single}
	}

	descriptors := make([]RemoteDescriptor, 0, len(entries))
	for _, entry := range entries {
		descriptors = append(descriptors, RemoteDescriptor{
			Digest:   entry.Descriptor.Digest,
			Platform: entry.Descriptor.Platform,
		})
	}
	return descriptors, nil
}

// Pulls ref for the given platform, streaming the CLI's progress output to
// the client's writer so the user sees layer-by-layer download progress.
func (c *Client) Pull(ctx context.Context, ref, platform string) error {
	log.Infof("pulling %s (%s)", ref, platform)

	res, err := c.exec.ExecuteStream(ctx, c.out, c.bin, "pull", "--platform", platform, ref)
	if err != nil {
		return fmt.Errorf("%w: pull %s: %w", ErrDocker, ref, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: pull %s: exit code %d", ErrCommandFailed, ref, res.ExitCode)
	}
	return nil
}

// Applies target as an additional name for the image known as source.
func (c *Client) Tag(ctx context.Context, source, target string) error {
	if _, err := c.run(ctx, "tag "+source, "tag", source, target); err != nil {
		return err
	}
	log.Debugf("tagged %s as %s", source, target)
	return nil
}

// Removes the image reference from the local daemon.
func (c *Client) RemoveImage(ctx context.Context, ref string) error {
	if _, err := c.run(ctx, "rmi "+ref, "rmi", ref); err != nil {
		return err
	}
	log.Debugf("removed image %s", ref)
	return nil
}

// Writes the image to a tar archive at path.
func (c *Client) Save(ctx context.Context, ref, path string) error {
	if _, err := c.run(ctx, "save "+ref, "save", "-o", path, ref); err != nil {
		return err
	}
	return nil
}

// Returns the IDs of all containers, running or stopped, created from ref.
func (c *Client) ContainersUsing(ctx context.Context, ref string) ([]string, error) {
	res, err := c.run(ctx, "ps --filter ancestor="+ref, "ps", "-a", "-q", "--filter", "ancestor="+ref)
	if err != nil {
		return nil, err
	}
	return strings.Fields(res.Stdout), nil
}

// Returns the shell command that removes ref, suitable for handing to an
// external scheduler.
func (c *Client) RemovalCommand(ref string) string {
	return fmt.Sprintf("%s rmi %s", c.bin, ref)
}
