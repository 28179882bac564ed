/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	"fmt"
	"os"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"
)

var scheme = runtime.NewScheme()

func init() {
	if err := AddToScheme(scheme); err != nil {
		panic(err)
	}
}

// Decode parses a YAML or JSON document, applies defaults and validates the
// result. Unknown fields are rejected.
func Decode(data []byte) (*SearchConfiguration, error) {
	cfg := &SearchConfiguration{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding search configuration: %w", err)
	}
	scheme.Default(cfg)
	if err := ValidateSearchConfiguration(cfg); err != nil {
		return nil, fmt.Errorf("invalid search configuration: %w", err)
	}
	return cfg, nil
}

// Load reads the configuration file at path. An empty path yields the
// defaulted configuration.
func Load(path string) (*SearchConfiguration, error) {
	if path == "" {
		return Decode(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading search configuration: %w", err)
	}
	return Decode(data)
}
