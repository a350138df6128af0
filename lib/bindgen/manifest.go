// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bindgen

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/tflitec/lib/feature"
	"github.com/bureau-foundation/tflitec/lib/headers"
)

// PackageName is the generated Go package.
const PackageName = "tflitec"

// Manifest is the subset of the c-for-go manifest this tool writes.
type Manifest struct {
	Generator  Generator  `yaml:"GENERATOR"`
	Parser     Parser     `yaml:"PARSER"`
	Translator Translator `yaml:"TRANSLATOR"`
}

// Generator controls the emitted package.
type Generator struct {
	PackageName        string      `yaml:"PackageName"`
	PackageDescription string      `yaml:"PackageDescription"`
	PackageLicense     string      `yaml:"PackageLicense"`
	Includes           []string    `yaml:"Includes"`
	FlagGroups         []FlagGroup `yaml:"FlagGroups,omitempty"`
}

// FlagGroup is a #cgo directive written into the generated package.
type FlagGroup struct {
	Name  string   `yaml:"name"`
	Flags []string `yaml:"flags"`
}

// Parser tells c-for-go which headers to read.
type Parser struct {
	IncludePaths []string `yaml:"IncludePaths"`
	SourcesPaths []string `yaml:"SourcesPaths"`
}

// Translator holds name translation rules.
type Translator struct {
	ConstRules map[string]string `yaml:"ConstRules"`
	Rules      map[string][]Rule `yaml:"Rules"`
}

// Rule is one c-for-go translation rule.
type Rule struct {
	Action    string `yaml:"action,omitempty"`
	From      string `yaml:"from,omitempty"`
	To        string `yaml:"to,omitempty"`
	Transform string `yaml:"transform,omitempty"`
}

// SourceHeaders returns the headers handed to the parser for features.
// Supporting headers (c_api_types.h, common.h) are reached through
// includes.
func SourceHeaders(features feature.Set) []string {
	sources := []string{headers.CAPI}
	if features.XNNPACK {
		sources = append(sources, headers.XNNPACKDelegate)
	}
	return sources
}

// NewManifest builds the manifest for headers under includeRoot.
func NewManifest(includeRoot string, features feature.Set) Manifest {
	sources := SourceHeaders(features)
	absolute := make([]string, len(sources))
	for i, source := range sources {
		absolute[i] = filepath.ToSlash(filepath.Join(includeRoot, filepath.FromSlash(source)))
	}

	return Manifest{
		Generator: Generator{
			PackageName:        PackageName,
			PackageDescription: "Package tflitec provides Go bindings for the TensorFlow Lite C API.",
			PackageLicense:     "THE AUTOGENERATED LICENSE. ALL THE RIGHTS ARE RESERVED BY ROBOTS.",
			Includes:           sources,
			FlagGroups: []FlagGroup{
				{Name: "CFLAGS", Flags: []string{"-I" + filepath.ToSlash(includeRoot)}},
			},
		},
		Parser: Parser{
			IncludePaths: []string{filepath.ToSlash(includeRoot)},
			SourcesPaths: absolute,
		},
		Translator: Translator{
			ConstRules: map[string]string{
				"defines": "expand",
				"enum":    "cgo",
			},
			Rules: map[string][]Rule{
				"global": {
					{Action: "accept", From: "^TfLite"},
					{Action: "ignore", From: "^TfLiteInterpreterOptionsSetErrorReporter$"},
					{Transform: "export"},
				},
				"private": {
					{Transform: "unexport"},
				},
				"post-global": {
					{Action: "replace", From: "_$"},
				},
			},
		},
	}
}

// Marshal renders the manifest as YAML.
func (m Manifest) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding c-for-go manifest: %w", err)
	}
	return data, nil
}
