package widget

import "sync"

// Buffer is a View that keeps the latest content in memory for hosts that
// serve it on request.
type Buffer struct {
	mu          sync.Mutex
	content     string
	searchValue string
	mounted     bool
}

func (b *Buffer) Mount() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.content, b.searchValue, b.mounted = "", "", true
}

func (b *Buffer) SetContent(markup string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.content = markup
}

func (b *Buffer) SetSearchValue(value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searchValue = value
}

// Snapshot returns the current content and search value.
func (b *Buffer) Snapshot() (content, searchValue string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content, b.searchValue
}

func (b *Buffer) Mounted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mounted
}
