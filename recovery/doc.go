// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package recovery implements an http.Handler that recovers from panics, allowing
configurable actions to take when a panic occurs.
*/
package recovery
