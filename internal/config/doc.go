// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatcpe.
//
// # Configuration Precedence
//
// Later sources win:
//   - Built-in defaults
//   - ~/.chatcpe/config.toml (or the file given with --config)
//   - .env in the working directory
//   - Environment variables (CHATCPE_*, VITE_API_BASE_URL)
//
// The directory can be moved with CHATCPE_HOME.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.New(cfg.API.BaseURL)
package config
