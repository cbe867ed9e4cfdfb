// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fixgold

import (
	"bytes"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/pkg/errors"
)

// StripDirectives returns the fixture input with all harness directive comments
// removed, producing the bytes actually fed to the fixer.
//
// github.com/dave/dst attaches comments to their nodes as decorations, so pruning
// a directive does not disturb the layout of the surrounding code. All
// non-directive bytes are preserved.
func StripDirectives(name string, src []byte) ([]byte, error) {
	f, err := decorator.Parse(src)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse fixture [%s]", name)
	}

	dst.Inspect(f, func(n dst.Node) bool {
		if n == nil {
			return false
		}
		decs := n.Decorations()
		pruneDirectives(&decs.Start)
		pruneDirectives(&decs.End)
		return true
	})

	var buf bytes.Buffer
	if err := decorator.Fprint(&buf, f); err != nil {
		return nil, errors.Wrapf(err, "failed to print stripped fixture [%s]", name)
	}

	return buf.Bytes(), nil
}

func pruneDirectives(d *dst.Decorations) {
	kept := (*d)[:0]
	for _, text := range *d {
		if IsDirectiveText(text) {
			continue
		}
		kept = append(kept, text)
	}
	*d = kept
}
