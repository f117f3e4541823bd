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

package client

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd/api"
)

func resetSingleton(t *testing.T) {
	t.Helper()
	reset := func() {
		clientOnce = sync.Once{}
		cachedClient = nil
		cachedConfig = nil
		clientErr = nil
	}
	reset()
	t.Cleanup(reset)
}

func TestBuildKubeClient_InvalidPaths(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		env  string
	}{
		{name: "explicit invalid path", arg: "/nonexistent/path/to/kubeconfig"},
		{name: "env var with invalid path", env: "/nonexistent/env/kubeconfig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KUBECONFIG", tt.env)

			_, _, err := BuildKubeClient(tt.arg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to build kube config")
		})
	}
}

func TestBuildKubeClient_InvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kubeconfig")
	require.NoError(t, os.WriteFile(path, []byte("invalid yaml content"), 0o600))

	_, _, err := BuildKubeClient(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build kube config")
}

func TestBuildKubeClient_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kubeconfig")
	content := `apiVersion: v1
kind: Config
clusters:
- name: test
  cluster:
    server: https://127.0.0.1:6443
contexts:
- name: test
  context:
    cluster: test
    user: test
current-context: test
users:
- name: test
  user:
    token: abc
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cs, cfg, err := BuildKubeClient(path)
	require.NoError(t, err)
	assert.NotNil(t, cs)
	assert.Equal(t, "https://127.0.0.1:6443", cfg.Host)
	assert.Equal(t, "bearer-token", AuthMethod(cfg))
}

func TestResolveKubeconfig(t *testing.T) {
	t.Setenv("KUBECONFIG", "/from/env")
	assert.Equal(t, "/explicit", resolveKubeconfig("/explicit"))
	assert.Equal(t, "/from/env", resolveKubeconfig(""))
}

func TestGetKubeClient_Singleton(t *testing.T) {
	resetSingleton(t)
	t.Setenv("KUBECONFIG", "/nonexistent/kubeconfig")

	c1, cfg1, err1 := GetKubeClient()
	c2, cfg2, err2 := GetKubeClient()

	require.Error(t, err1)
	assert.Same(t, err1, err2)
	assert.Nil(t, c1, "failed build must not return a typed nil client")
	assert.Nil(t, c2)
	assert.Nil(t, cfg1)
	assert.Nil(t, cfg2)
}

func TestAuthMethod(t *testing.T) {
	tests := []struct {
		name string
		cfg  *rest.Config
		want string
	}{
		{"nil", nil, "none"},
		{"auth provider", &rest.Config{AuthProvider: &api.AuthProviderConfig{Name: "oidc"}}, "oidc"},
		{"exec", &rest.Config{ExecProvider: &api.ExecConfig{Command: "aws"}}, "exec"},
		{"token", &rest.Config{BearerToken: "t"}, "bearer-token"},
		{"cert", &rest.Config{TLSClientConfig: rest.TLSClientConfig{CertData: []byte("x")}}, "cert"},
		{"default", &rest.Config{}, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthMethod(tt.cfg))
		})
	}
}
