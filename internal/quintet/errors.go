// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package quintet

import "fmt"

// ParseError reports a malformed quintet or quintet part.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bad quintet %q: %s", e.Input, e.Reason)
}
