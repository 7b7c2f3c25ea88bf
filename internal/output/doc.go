// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package output renders command results to an io.Writer as human readable text,
// JSON or YAML.
package output
