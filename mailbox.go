package dvsim

// mailbox.go implements the bounded inbound buffer of a router.
// Any number of senders may push at the same time, only the owning
// router drains it.

// Mailbox holds up to its capacity of advertisements, in arrival order
type Mailbox struct {
	slots chan *Advertisement
}

// NewMailbox is a constructor
func NewMailbox(capacity int) *Mailbox {
	return &Mailbox{slots: make(chan *Advertisement, capacity)}
}

// TryPush offers adv to the mailbox and reports whether it was accepted.
// A full mailbox refuses it and TryPush returns immediately.
func (mb *Mailbox) TryPush(adv *Advertisement) bool {
	select {
	case mb.slots <- adv:
		return true
	default:
		return false
	}
}

// DrainAll empties the mailbox, returning its contents oldest first
func (mb *Mailbox) DrainAll() []*Advertisement {
	rtn := make([]*Advertisement, 0, len(mb.slots))
	for {
		select {
		case adv := <-mb.slots:
			rtn = append(rtn, adv)
		default:
			return rtn
		}
	}
}

// Len is the number of advertisements waiting
func (mb *Mailbox) Len() int {
	return len(mb.slots)
}

// Cap is the capacity the mailbox was created with
func (mb *Mailbox) Cap() int {
	return cap(mb.slots)
}
