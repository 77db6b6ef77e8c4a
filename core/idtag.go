package core

// Well-known ID tag keys of the LRC header block.
const (
	IDTagTitle  = "ti"
	IDTagAlbum  = "al"
	IDTagArtist = "ar"
	IDTagAuthor = "au"
	IDTagLrcBy  = "by"
	IDTagOffset = "offset"
	IDTagLength = "length"
)
