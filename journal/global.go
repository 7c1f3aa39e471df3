package journal

// J is the process journal. It is a no-op until the node installs the
// configured journal at startup, so components may record events at any time.
var J Journal = NilJournal() // nolint
