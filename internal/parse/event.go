package parse

import "github.com/viletech/doomfront/internal/syntax"

type eventTag uint8

const (
	openEvent eventTag = iota + 1
	closeEvent
	advanceEvent   //count >= 1 tokens fused in a single leaf
	tombstoneEvent //cancelled open event
)

type event struct {
	tag   eventTag
	kind  syntax.Kind
	count int
}
