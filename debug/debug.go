// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package debug holds process-wide debug flags consulted by other packages
// (notably logger) to decide how verbose to be.
package debug

// Debug toggles verbose / unfiltered diagnostics across the module. It is
// off by default so that test binaries stay quiet; set it from an init()
// or via a build tag in a consuming application to turn tracing back on.
var Debug = false
