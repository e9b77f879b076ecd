// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// most of base Lua is available such as reading files to set key data
// and getenv to extract environment supplied items.
//
// the file must return a single table, the sections of which are
// mapped onto Configuration by their gluamapper tags.  Relative paths
// are resolved against data_directory; "." means the directory
// containing the configuration file.
package configuration
