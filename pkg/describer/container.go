// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package describer

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/distribution/reference"
	"github.com/docker/docker/api/types/container"
	dockerclient "github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/NVIDIA/autodoc/pkg/defaults"
	"github.com/NVIDIA/autodoc/pkg/describer/file"
	"github.com/NVIDIA/autodoc/pkg/graph"
)

const (
	AttrContainerID = "container-id"
	AttrRuntime     = "runtime"
	AttrName        = "name"
	AttrImage       = "image"
	AttrImageID     = "image-id"
	AttrImageName   = "image-name"
	AttrImageTag    = "image-tag"
	AttrImageDigest = "image-digest"

	RuntimeDocker = "docker"

	dockerEnvPath = "/.dockerenv"
	cgroupPath    = "/proc/self/cgroup"
	mountInfoPath = "/proc/self/mountinfo"

	shortIDLength = 12
)

var (
	// cgroup v1: "12:cpu:/docker/<id>", systemd driver: ".../docker-<id>.scope"
	cgroupIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/docker/([0-9a-f]{64})`),
		regexp.MustCompile(`docker-([0-9a-f]{64})\.scope`),
	}

	// cgroup v2 has no id in /proc/self/cgroup, the bind mounts of
	// /etc/hostname and friends carry it instead. The mount root must be the
	// container's own copy of the mounted file.
	mountInfoRootPattern = regexp.MustCompile(`/docker/containers/([0-9a-f]{64})/([^/]+)$`)

	// mount point -> file name under the container directory
	containerBindMounts = map[string]string{
		"/etc/hostname":    "hostname",
		"/etc/hosts":       "hosts",
		"/etc/resolv.conf": "resolv.conf",
	}

	// OCI image annotations copied from container labels when present.
	ociLabelKeys = []string{
		ocispec.AnnotationTitle,
		ocispec.AnnotationVersion,
		ocispec.AnnotationRevision,
		ocispec.AnnotationSource,
		ocispec.AnnotationCreated,
		ocispec.AnnotationVendor,
		ocispec.AnnotationURL,
		ocispec.AnnotationLicenses,
	}
)

// Inspector returns engine side details for a container. Satisfied by the
// Docker API client.
type Inspector interface {
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
}

// ContainerOption configures a ContainerDescriber.
type ContainerOption func(*ContainerDescriber)

// WithContainerParser sets the parser used to read the detection files.
func WithContainerParser(p *file.Parser) ContainerOption {
	return func(d *ContainerDescriber) {
		d.parser = p
	}
}

// WithInspector sets the Docker inspector. A nil inspector disables
// enrichment.
func WithInspector(in Inspector) ContainerOption {
	return func(d *ContainerDescriber) {
		d.newInspector = func() (Inspector, error) { return in, nil }
	}
}

// WithContainerHostname overrides the hostname used as a fallback id when
// only the /.dockerenv marker is found.
func WithContainerHostname(fn func() (string, error)) ContainerOption {
	return func(d *ContainerDescriber) {
		d.hostname = fn
	}
}

// ContainerDescriber reports the Docker container the process runs in, if any.
type ContainerDescriber struct {
	parser       *file.Parser
	hostname     func() (string, error)
	newInspector func() (Inspector, error)

	once      sync.Once
	inspector Inspector
}

// NewContainerDescriber creates a container describer that enriches items
// through the Docker engine configured by the environment (DOCKER_HOST).
func NewContainerDescriber(opts ...ContainerOption) *ContainerDescriber {
	d := &ContainerDescriber{
		parser:       file.NewParser(),
		hostname:     os.Hostname,
		newInspector: newDockerInspector,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func newDockerInspector() (Inspector, error) {
	return dockerclient.NewClientWithOpts(
		dockerclient.FromEnv,
		dockerclient.WithAPIVersionNegotiation(),
	)
}

// Name implements Describer.
func (d *ContainerDescriber) Name() string { return "container" }

// Describe returns one docker-container item when running in a container and
// no items otherwise. Enrichment failures keep the basic item.
func (d *ContainerDescriber) Describe(ctx context.Context) ([]graph.Item, error) {
	id, ok := d.detect()
	if !ok {
		slog.Debug("not running in a docker container")
		return nil, nil
	}

	item := graph.NewItem(ContainerID(id), graph.TypeContainer).
		With(AttrContainerID, id).
		With(AttrRuntime, RuntimeDocker)

	if in := d.getInspector(); in != nil {
		item = d.enrich(ctx, in, id, item)
	}

	return []graph.Item{item}, nil
}

// detect returns the container id from cgroup or mountinfo data, falling
// back to the hostname when only the /.dockerenv marker is present.
func (d *ContainerDescriber) detect() (string, bool) {
	if lines, err := d.parser.GetLines(cgroupPath); err == nil {
		for _, line := range lines {
			for _, re := range cgroupIDPatterns {
				if m := re.FindStringSubmatch(line); m != nil {
					return m[1], true
				}
			}
		}
	}

	if lines, err := d.parser.GetLines(mountInfoPath); err == nil {
		for _, line := range lines {
			if id, ok := mountInfoID(line); ok {
				return id, true
			}
		}
	}

	if !d.parser.Exists(dockerEnvPath) {
		return "", false
	}

	name, err := d.hostname()
	if err != nil || strings.TrimSpace(name) == "" {
		slog.Debug("docker marker found but container id unknown")
		return "", false
	}
	return strings.TrimSpace(name), true
}

// mountInfoID returns the container id from a /proc/self/mountinfo line
// when it is one of the bind mounts docker sets up inside a container.
// Fields: id, parent, major:minor, root, mount point, options, ...
func mountInfoID(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return "", false
	}
	name, ok := containerBindMounts[fields[4]]
	if !ok {
		return "", false
	}
	m := mountInfoRootPattern.FindStringSubmatch(fields[3])
	if m == nil || m[2] != name {
		return "", false
	}
	return m[1], true
}

func (d *ContainerDescriber) getInspector() Inspector {
	d.once.Do(func() {
		in, err := d.newInspector()
		if err != nil {
			slog.Debug("docker client not available", slog.String("error", err.Error()))
			return
		}
		d.inspector = in
	})
	return d.inspector
}

func (d *ContainerDescriber) enrich(ctx context.Context, in Inspector, id string, item graph.Item) graph.Item {
	ctx, cancel := context.WithTimeout(ctx, defaults.DockerInspectTimeout)
	defer cancel()

	resp, err := in.ContainerInspect(ctx, id)
	if err != nil {
		slog.Warn("docker inspect failed, keeping basic container item",
			slog.String("container", id),
			slog.String("error", err.Error()))
		return item
	}

	if resp.ContainerJSONBase != nil {
		item = item.With(AttrName, strings.TrimPrefix(resp.Name, "/")).
			With(AttrImageID, resp.Image)
	}

	if resp.Config == nil {
		return item
	}

	item = item.With(AttrImage, resp.Config.Image)
	item = withImageReference(item, resp.Config.Image)

	for _, key := range ociLabelKeys {
		item = item.With(key, resp.Config.Labels[key])
	}

	return item
}

// withImageReference splits an image reference into familiar name, tag and
// digest. Unparseable references are left as the raw image attribute.
func withImageReference(item graph.Item, image string) graph.Item {
	if image == "" {
		return item
	}

	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		slog.Debug("unparseable image reference", slog.String("image", image), slog.String("error", err.Error()))
		return item
	}

	item = item.With(AttrImageName, reference.FamiliarName(named))
	if tagged, ok := named.(reference.Tagged); ok {
		item = item.With(AttrImageTag, tagged.Tag())
	} else if _, digested := named.(reference.Digested); !digested {
		item = item.With(AttrImageTag, "latest")
	}
	if digested, ok := named.(reference.Digested); ok {
		item = item.With(AttrImageDigest, digested.Digest().String())
	}
	return item
}

// ContainerID returns the graph id of the container item for a container id.
func ContainerID(id string) string {
	if len(id) > shortIDLength {
		id = id[:shortIDLength]
	}
	return "container-" + id
}
