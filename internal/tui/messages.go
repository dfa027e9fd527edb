package tui

import (
	"github.com/ellenbowman/satellite-of-love/internal/listing"
	"github.com/ellenbowman/satellite-of-love/internal/recap"
)

type viewLoadedMsg struct {
	view *listing.View
}

type loadErrMsg struct {
	err error
}

type refreshDoneMsg struct {
	detail string
	err    error
}

type recapLoadedMsg struct {
	recap recap.Recap
}
