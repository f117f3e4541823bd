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
	"errors"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/docker/docker/api/types/container"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/autodoc/pkg/config"
	"github.com/NVIDIA/autodoc/pkg/describer/file"
	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
	"github.com/NVIDIA/autodoc/pkg/graph"
)

const testContainerID = "4f66ad9a0b2e3c1d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d"

func fixture(t *testing.T, files map[string]string) *file.Parser {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
	return file.NewParser(file.WithRoot(root))
}

type fakeInspector struct {
	resp  container.InspectResponse
	err   error
	calls []string
}

func (f *fakeInspector) ContainerInspect(_ context.Context, id string) (container.InspectResponse, error) {
	f.calls = append(f.calls, id)
	return f.resp, f.err
}

func TestDefault_Order(t *testing.T) {
	s, err := config.NewSettings(config.Defaults())
	require.NoError(t, err)

	ds := Default(s)
	require.Len(t, ds, 3)
	assert.Equal(t, "hostname", ds[0].Name())
	assert.Equal(t, "container", ds[1].Name())
	assert.Equal(t, "application", ds[2].Name())
}

func TestHostnameDescriber(t *testing.T) {
	d := NewHostnameDescriber(
		WithHostParser(fixture(t, map[string]string{"/etc/os-release": "PRETTY_NAME=\"Ubuntu 24.04 LTS\"\n"})),
		WithHostnameFunc(func() (string, error) { return "node-1\n", nil }),
		WithLookupIP(func(_ context.Context, host string) ([]net.IPAddr, error) {
			assert.Equal(t, "node-1", host)
			return []net.IPAddr{
				{IP: net.ParseIP("10.0.0.7")},
				{IP: net.ParseIP("127.0.0.1")},
				{IP: net.ParseIP("10.0.0.5")},
				{IP: net.ParseIP("10.0.0.5")},
			}, nil
		}),
		WithMachineIDFunc(func() (string, error) { return "abc123\n", nil }),
		WithSystemdFunc(func() bool { return true }),
	)

	items, err := d.Describe(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "host-node-1", item.ID)
	assert.Equal(t, graph.TypeHost, item.Type)
	assert.Equal(t, map[string]string{
		AttrHostname:  "node-1",
		AttrIP:        "10.0.0.5,10.0.0.7",
		AttrMachineID: "abc123",
		AttrInit:      "systemd",
		AttrOS:        "Ubuntu 24.04 LTS",
	}, item.Attributes)
}

func TestHostnameDescriber_OptionalAttributes(t *testing.T) {
	d := NewHostnameDescriber(
		WithHostParser(fixture(t, nil)),
		WithHostnameFunc(func() (string, error) { return "node-2", nil }),
		WithLookupIP(func(context.Context, string) ([]net.IPAddr, error) { return nil, errors.New("no such host") }),
		WithMachineIDFunc(func() (string, error) { return "", os.ErrNotExist }),
		WithSystemdFunc(func() bool { return false }),
	)

	items, err := d.Describe(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, map[string]string{AttrHostname: "node-2"}, items[0].Attributes)
}

func TestHostnameDescriber_Error(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (string, error)
	}{
		{"lookup error", func() (string, error) { return "", errors.New("boom") }},
		{"empty", func() (string, error) { return "  ", nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewHostnameDescriber(WithHostnameFunc(tt.fn))
			items, err := d.Describe(context.Background())
			require.Error(t, err)
			assert.Nil(t, items)
			assert.True(t, aderrors.IsCode(err, aderrors.ErrCodeDescriberFailure))
		})
	}
}

func TestContainerDescriber_Detection(t *testing.T) {
	tests := []struct {
		name   string
		files  map[string]string
		wantID string
	}{
		{
			name:  "not in container",
			files: map[string]string{cgroupPath: "0::/user.slice/session-1.scope\n"},
		},
		{
			name:   "cgroup v1",
			files:  map[string]string{cgroupPath: "12:cpu,cpuacct:/docker/" + testContainerID + "\n"},
			wantID: testContainerID,
		},
		{
			name:   "systemd scope",
			files:  map[string]string{cgroupPath: "1:name=systemd:/system.slice/docker-" + testContainerID + ".scope\n"},
			wantID: testContainerID,
		},
		{
			name: "cgroup v2 mountinfo",
			files: map[string]string{
				cgroupPath:    "0::/\n",
				mountInfoPath: "612 590 8:1 /var/lib/docker/containers/" + testContainerID + "/hostname /etc/hostname rw - ext4 /dev/sda1 rw\n",
			},
			wantID: testContainerID,
		},
		{
			name: "cgroup v2 resolv.conf bind mount",
			files: map[string]string{
				cgroupPath:    "0::/\n",
				mountInfoPath: "1419 1398 0:31 / / rw - overlay overlay rw\n613 590 8:1 /docker/containers/" + testContainerID + "/resolv.conf /etc/resolv.conf rw - ext4 /dev/sda1 rw\n",
			},
			wantID: testContainerID,
		},
		{
			name: "docker host is not a container",
			files: map[string]string{
				cgroupPath:    "0::/user.slice/user-1000.slice/session-2.scope\n",
				mountInfoPath: "29 1 8:1 / / rw,relatime shared:1 - ext4 /dev/sda1 rw\n701 29 0:52 / /var/lib/docker/containers/" + testContainerID + "/mounts/shm rw,nosuid,nodev,noexec,relatime shared:390 - tmpfs shm rw,size=65536k\n",
			},
		},
		{
			name: "bind mount root does not match mount point",
			files: map[string]string{
				cgroupPath:    "0::/\n",
				mountInfoPath: "612 590 8:1 /var/lib/docker/containers/" + testContainerID + "/hosts /etc/hostname rw - ext4 /dev/sda1 rw\n",
			},
		},
		{
			name:   "dockerenv marker only",
			files:  map[string]string{dockerEnvPath: ""},
			wantID: "4f66ad9a0b2e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewContainerDescriber(
				WithContainerParser(fixture(t, tt.files)),
				WithContainerHostname(func() (string, error) { return "4f66ad9a0b2e", nil }),
				WithInspector(nil),
			)

			items, err := d.Describe(context.Background())
			require.NoError(t, err)

			if tt.wantID == "" {
				assert.Empty(t, items)
				return
			}

			require.Len(t, items, 1)
			assert.Equal(t, "container-4f66ad9a0b2e", items[0].ID)
			assert.Equal(t, graph.TypeContainer, items[0].Type)
			assert.Equal(t, map[string]string{
				AttrContainerID: tt.wantID,
				AttrRuntime:     RuntimeDocker,
			}, items[0].Attributes)
		})
	}
}

func TestMountInfoID(t *testing.T) {
	tests := []struct {
		line   string
		wantID string
	}{
		{"612 590 8:1 /var/lib/docker/containers/" + testContainerID + "/hostname /etc/hostname rw - ext4 /dev/sda1 rw", testContainerID},
		{"614 590 8:1 /var/lib/docker/containers/" + testContainerID + "/hosts /etc/hosts rw - ext4 /dev/sda1 rw", testContainerID},
		{"701 29 0:52 / /var/lib/docker/containers/" + testContainerID + "/mounts/shm rw - tmpfs shm rw", ""},
		{"615 590 8:1 /var/lib/docker/containers/" + testContainerID + "/hostname /srv/hostname rw - ext4 /dev/sda1 rw", ""},
		{"616 590 8:1 /var/lib/docker/containers/abc/hostname /etc/hostname rw - ext4 /dev/sda1 rw", ""},
		{"short line", ""},
	}

	for _, tt := range tests {
		id, ok := mountInfoID(tt.line)
		assert.Equal(t, tt.wantID != "", ok, tt.line)
		assert.Equal(t, tt.wantID, id, tt.line)
	}
}

func TestContainerDescriber_Enrichment(t *testing.T) {
	in := &fakeInspector{resp: container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			Name:  "/orders-1",
			Image: "sha256:deadbeef",
		},
		Config: &container.Config{
			Image: "ghcr.io/acme/orders:1.4.2",
			Labels: map[string]string{
				ocispec.AnnotationVersion:  "1.4.2",
				ocispec.AnnotationRevision: "a1b2c3",
				"com.example.other":        "ignored",
			},
		},
	}}

	d := NewContainerDescriber(
		WithContainerParser(fixture(t, map[string]string{cgroupPath: "0::/docker/" + testContainerID + "\n"})),
		WithInspector(in),
	)

	items, err := d.Describe(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, []string{testContainerID}, in.calls)
	assert.Equal(t, map[string]string{
		AttrContainerID:            testContainerID,
		AttrRuntime:                RuntimeDocker,
		AttrName:                   "orders-1",
		AttrImageID:                "sha256:deadbeef",
		AttrImage:                  "ghcr.io/acme/orders:1.4.2",
		AttrImageName:              "ghcr.io/acme/orders",
		AttrImageTag:               "1.4.2",
		ocispec.AnnotationVersion:  "1.4.2",
		ocispec.AnnotationRevision: "a1b2c3",
	}, items[0].Attributes)
}

func TestContainerDescriber_EnrichmentFailureKeepsItem(t *testing.T) {
	in := &fakeInspector{err: errors.New("cannot connect to the docker daemon")}

	d := NewContainerDescriber(
		WithContainerParser(fixture(t, map[string]string{cgroupPath: "0::/docker/" + testContainerID + "\n"})),
		WithInspector(in),
	)

	items, err := d.Describe(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Len(t, items[0].Attributes, 2)
}

func TestWithImageReference(t *testing.T) {
	tests := []struct {
		image string
		want  map[string]string
	}{
		{"nginx", map[string]string{AttrImageName: "nginx", AttrImageTag: "latest"}},
		{"docker.io/library/redis:7", map[string]string{AttrImageName: "redis", AttrImageTag: "7"}},
		{
			"quay.io/acme/app@sha256:" + testContainerID,
			map[string]string{AttrImageName: "quay.io/acme/app", AttrImageDigest: "sha256:" + testContainerID},
		},
		{"Not A Reference", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.image, func(t *testing.T) {
			got := withImageReference(graph.NewItem("c", graph.TypeContainer), tt.image)
			assert.Equal(t, tt.want, got.Attributes)
		})
	}
}

func TestContainerID(t *testing.T) {
	assert.Equal(t, "container-4f66ad9a0b2e", ContainerID(testContainerID))
	assert.Equal(t, "container-short", ContainerID("short"))
}

func TestApplicationIdentityDescriber(t *testing.T) {
	d := NewApplicationIdentityDescriber("orders", "1.4.2-SNAPSHOT")
	d.pid = func() int { return 42 }

	items, err := d.Describe(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "app-orders", items[0].ID)
	assert.Equal(t, graph.TypeApplication, items[0].Type)
	assert.Equal(t, map[string]string{
		AttrName:         "orders",
		AttrVersion:      "1.4.2-SNAPSHOT",
		AttrVersionMajor: "1",
		AttrVersionMinor: "4",
		AttrPID:          "42",
		AttrRuntime:      runtime.Version(),
	}, items[0].Attributes)
}

func TestApplicationIdentityDescriber_Defaults(t *testing.T) {
	d := NewApplicationIdentityDescriber(" ", "")

	items, err := d.Describe(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "app-application", items[0].ID)
	assert.Equal(t, strconv.Itoa(os.Getpid()), items[0].Attributes[AttrPID])
	assert.NotContains(t, items[0].Attributes, AttrVersion)
	assert.NotContains(t, items[0].Attributes, AttrVersionMajor)
}

func TestApplicationIdentityDescriber_NonNumericVersion(t *testing.T) {
	items, err := NewApplicationIdentityDescriber("orders", "2024.Q1").Describe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024.Q1", items[0].Attributes[AttrVersion])
	assert.NotContains(t, items[0].Attributes, AttrVersionMajor)
}

func TestApplicationIdentityDescriber_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewApplicationIdentityDescriber("orders", "").Describe(ctx)
	require.Error(t, err)
	assert.True(t, aderrors.IsCode(err, aderrors.ErrCodeTimeout))
}
