// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the configuration of an httpsvc.Service from
// defaults, an optional YAML file and the environment, and builds the
// service's collaborators from it.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. built-in defaults;
//  2. the YAML file, if a path is given;
//  3. environment variables prefixed HTTPSVC_;
//  4. overrides passed to LoadWithOverrides.
//
// An environment variable name maps to a configuration key by dropping
// the prefix, lower-casing, and replacing underscores with dots, so
// HTTPSVC_SERVER_BASEURL sets server.baseurl and HTTPSVC_RETRY_BASEDELAY
// sets retry.basedelay.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "HTTPSVC_"

// Load loads and validates the configuration. If path is empty, no
// file is read; otherwise the file must exist.
func Load(path string) (*Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides is like Load, but finally applies overrides, keyed
// by configuration key, on top of every other source. Command line
// flags are typically passed this way.
func LoadWithOverrides(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("httpsvc/config: failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("httpsvc/config: failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("httpsvc/config: failed to load environment variables: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("httpsvc/config: failed to load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("httpsvc/config: failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey converts HTTPSVC_SERVER_BASEURL to server.baseurl.
func envKey(k, v string) (string, any) {
	k = strings.TrimPrefix(k, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(k), "_", "."), v
}

func defaults() map[string]any {
	return map[string]any{
		"server.useragent": "",

		"retry.maxretrycount":         2,
		"retry.retryablestatuscodes":  []int{408, 429, 500, 502, 503, 504},
		"retry.retryontransporterror": true,
		"retry.basedelay":             "1s",

		"timeout.attempt": "30s",

		"ratelimit.rate":  0,
		"ratelimit.burst": 1,

		"log.level":  "info",
		"log.format": "json",
		"log.bodies": false,
	}
}
