package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FakeSMS records sends in memory. Tests script failures via Err.
type FakeSMS struct {
	mu   sync.Mutex
	Err  error
	Sent []FakeSMSMessage
}

type FakeSMSMessage struct {
	To   string
	Body string
}

func (f *FakeSMS) Send(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, FakeSMSMessage{To: to, Body: body})
	return nil
}

func (f *FakeSMS) SentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

// FakeEmail is an in-memory email gateway with scriptable failures and
// injectable thread replies.
type FakeEmail struct {
	mu        sync.Mutex
	SendErr   error
	ReplyErr  error
	ThreadErr error

	Sent    []FakeEmailMessage
	Replies []FakeEmailMessage
	threads map[ThreadHandle][]ThreadMessage
}

type FakeEmailMessage struct {
	Handle  ThreadHandle
	To      string
	Subject string
	Body    string
}

func (f *FakeEmail) Send(_ context.Context, to, subject, htmlBody string) (ThreadHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return "", f.SendErr
	}
	h := ThreadHandle(uuid.NewString())
	if f.threads == nil {
		f.threads = make(map[ThreadHandle][]ThreadMessage)
	}
	f.threads[h] = []ThreadMessage{{IsOutbound: true, Timestamp: time.Now()}}
	f.Sent = append(f.Sent, FakeEmailMessage{Handle: h, To: to, Subject: subject, Body: htmlBody})
	return h, nil
}

func (f *FakeEmail) SendReply(_ context.Context, handle ThreadHandle, to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReplyErr != nil {
		return f.ReplyErr
	}
	f.threads[handle] = append(f.threads[handle], ThreadMessage{IsOutbound: true, Timestamp: time.Now()})
	f.Replies = append(f.Replies, FakeEmailMessage{Handle: handle, To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (f *FakeEmail) GetThread(_ context.Context, handle ThreadHandle) ([]ThreadMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ThreadErr != nil {
		return nil, f.ThreadErr
	}
	msgs := f.threads[handle]
	out := make([]ThreadMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

// InjectReply appends an inbound message to a thread, simulating the owner
// answering a digest.
func (f *FakeEmail) InjectReply(handle ThreadHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.threads == nil {
		f.threads = make(map[ThreadHandle][]ThreadMessage)
	}
	f.threads[handle] = append(f.threads[handle], ThreadMessage{IsOutbound: false, Timestamp: time.Now()})
}

func (f *FakeEmail) SentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

func (f *FakeEmail) ReplyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Replies)
}

func (f *FakeEmail) LastHandle() ThreadHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return ""
	}
	return f.Sent[len(f.Sent)-1].Handle
}
