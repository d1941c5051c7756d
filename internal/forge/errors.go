package forge

import (
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
)

var (
	// ErrNotAFile signals that a contents path resolved to a directory or other non-file entry.
	ErrNotAFile = errors.NewError(errors.CategoryRemote, "contents path is not a file").Build()

	// ErrUnsupportedEncoding signals a contents envelope in an encoding other than base64.
	ErrUnsupportedEncoding = errors.NewError(errors.CategoryRemote, "unsupported content encoding").Build()
)
