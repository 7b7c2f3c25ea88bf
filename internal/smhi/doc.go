// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package smhi is a client for the SMHI Open Data meteorological observations API.
//
// The client lists the available parameters and stations, reads the latest
// temperature of a station and scans every active station of the air temperature
// parameter to find the highest and the lowest values.
package smhi
