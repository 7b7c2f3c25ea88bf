// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger wraps the underlying logging stack behind a consistent interface.
// It centralizes configuration and makes loggers available through context helpers.
//
// Two implementations are available: a plain hclog logger used when no logging
// configuration is provided, and a Hierarchy built from a logconf.Config where
// named loggers dispatch records to stream, file and rotating file handlers,
// each one rendering the record with its own formatter.
package logger
