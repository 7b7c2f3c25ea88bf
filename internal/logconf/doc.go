// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logconf reads logging configuration files and checks their structure.
//
// Two formats are supported: the INI layout made of [loggers], [handlers] and
// [formatters] sections with their logger_*, handler_* and formatter_* definitions,
// and a YAML document with the same formatters, handlers, loggers and root keys.
// Both produce the same immutable Config, that is validated before being returned
// to the caller: every handler referenced by a logger and every formatter referenced
// by a handler must be defined.
package logconf
