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
	"net"
	"os"
	"slices"
	"strings"

	"github.com/coreos/go-systemd/v22/util"

	"github.com/NVIDIA/autodoc/pkg/defaults"
	"github.com/NVIDIA/autodoc/pkg/describer/file"
	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
	"github.com/NVIDIA/autodoc/pkg/graph"
)

const (
	AttrHostname  = "hostname"
	AttrIP        = "ip"
	AttrMachineID = "machine-id"
	AttrInit      = "init"
	AttrOS        = "os"

	osReleasePath = "/etc/os-release"
)

// HostOption configures a HostnameDescriber.
type HostOption func(*HostnameDescriber)

// WithHostParser sets the parser used to read /etc/os-release.
func WithHostParser(p *file.Parser) HostOption {
	return func(d *HostnameDescriber) {
		d.parser = p
	}
}

// WithHostnameFunc overrides hostname lookup.
func WithHostnameFunc(fn func() (string, error)) HostOption {
	return func(d *HostnameDescriber) {
		d.hostname = fn
	}
}

// WithLookupIP overrides the address lookup for the hostname.
func WithLookupIP(fn func(ctx context.Context, host string) ([]net.IPAddr, error)) HostOption {
	return func(d *HostnameDescriber) {
		d.lookupIP = fn
	}
}

// WithMachineIDFunc overrides machine id lookup.
func WithMachineIDFunc(fn func() (string, error)) HostOption {
	return func(d *HostnameDescriber) {
		d.machineID = fn
	}
}

// WithSystemdFunc overrides systemd detection.
func WithSystemdFunc(fn func() bool) HostOption {
	return func(d *HostnameDescriber) {
		d.isSystemd = fn
	}
}

// HostnameDescriber reports the machine the process runs on as a single
// host item.
type HostnameDescriber struct {
	parser    *file.Parser
	hostname  func() (string, error)
	lookupIP  func(ctx context.Context, host string) ([]net.IPAddr, error)
	machineID func() (string, error)
	isSystemd func() bool
}

// NewHostnameDescriber creates a host describer with system lookups.
func NewHostnameDescriber(opts ...HostOption) *HostnameDescriber {
	d := &HostnameDescriber{
		parser:    file.NewParser(file.WithVTrimChars("\"'")),
		hostname:  os.Hostname,
		lookupIP:  net.DefaultResolver.LookupIPAddr,
		machineID: util.GetMachineID,
		isSystemd: util.IsRunningSystemd,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements Describer.
func (d *HostnameDescriber) Name() string { return "hostname" }

// Describe resolves the hostname and its addresses. Only a failure to obtain
// the hostname is an error; every other attribute is optional.
func (d *HostnameDescriber) Describe(ctx context.Context) ([]graph.Item, error) {
	name, err := d.hostname()
	if err != nil {
		return nil, aderrors.Wrap(aderrors.ErrCodeDescriberFailure, "failed to get hostname", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, aderrors.New(aderrors.ErrCodeDescriberFailure, "hostname is empty")
	}

	item := graph.NewItem(HostID(name), graph.TypeHost).
		With(AttrHostname, name).
		With(AttrIP, d.addresses(ctx, name))

	if id, err := d.machineID(); err == nil {
		item = item.With(AttrMachineID, strings.TrimSpace(id))
	} else {
		slog.Debug("machine id not available", slog.String("error", err.Error()))
	}

	if d.isSystemd() {
		item = item.With(AttrInit, "systemd")
	}

	if release, err := d.parser.GetMap(osReleasePath); err == nil {
		item = item.With(AttrOS, strings.Trim(release["PRETTY_NAME"], "\"'"))
	} else if !file.IsNotExist(err) {
		slog.Debug("failed to read os release", slog.String("error", err.Error()))
	}

	return []graph.Item{item}, nil
}

// addresses returns the non-loopback addresses of host, sorted and comma
// separated, or an empty string when none resolve in time.
func (d *HostnameDescriber) addresses(ctx context.Context, host string) string {
	ctx, cancel := context.WithTimeout(ctx, defaults.HostLookupTimeout)
	defer cancel()

	addrs, err := d.lookupIP(ctx, host)
	if err != nil {
		slog.Debug("host address lookup failed", slog.String("host", host), slog.String("error", err.Error()))
		return ""
	}

	ips := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a.IP == nil || a.IP.IsLoopback() || a.IP.IsUnspecified() {
			continue
		}
		ips = append(ips, a.IP.String())
	}
	slices.Sort(ips)
	return strings.Join(slices.Compact(ips), ",")
}

// HostID returns the graph id of the host item for hostname.
func HostID(hostname string) string {
	return "host-" + hostname
}
