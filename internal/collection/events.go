package collection

// Lifecycle event names announced through the collection's hub.
const (
	EventBeforeAdd    = "beforeAdd"
	EventAdded        = "added"
	EventBeforeUpdate = "beforeUpdate"
	EventUpdated      = "updated"
	EventRemoved      = "removed"
	EventMoved        = "moved"
	EventBeforeFlush  = "beforeFlush"
	EventFlushed      = "flushed"
	EventParseError   = "parseError"
)
