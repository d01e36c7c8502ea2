package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for values stored in badger.
// Timestamps are stored as Unix microseconds; the zero time maps to 0.

// IDMUS serializes content-hash IDs.
var IDMUS mus.Serializer[ID] = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int { return varint.Uint64.Marshal(uint64(id), bs) }

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int { return varint.Uint64.Size(uint64(id)) }

func (idMUS) Skip(bs []byte) (int, error) { return varint.Uint64.Skip(bs) }

var stringSliceMUS = ord.NewSliceSer[string](ord.String)

// TaskMUS serializes Task values.
var TaskMUS mus.Serializer[Task] = taskMUS{}

type taskMUS struct{}

func (taskMUS) Marshal(t Task, bs []byte) (n int) {
	n = ord.String.Marshal(t.TaskID, bs)
	n += varint.Int.Marshal(int(t.Status), bs[n:])
	n += ord.String.Marshal(t.Prompt, bs[n:])
	n += ord.String.Marshal(t.OwnerID, bs[n:])
	n += stringSliceMUS.Marshal(t.DocIDs, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(t.CreatedAt), bs[n:])
	n += ord.String.Marshal(t.Result, bs[n:])
	n += ord.String.Marshal(t.Error, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(t.CompletedAt), bs[n:])
	n += ord.String.Marshal(t.SessionID, bs[n:])
	return n
}

func (taskMUS) Unmarshal(bs []byte) (t Task, n int, err error) {
	var n1 int
	if t.TaskID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	var status int
	if status, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	t.Status = TaskStatus(status)
	n += n1
	if t.Prompt, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.OwnerID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.DocIDs, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	var createdAt int64
	if createdAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	t.CreatedAt = microToTime(createdAt)
	n += n1
	if t.Result, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.Error, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	var completedAt int64
	if completedAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	t.CompletedAt = microToTime(completedAt)
	n += n1
	if t.SessionID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	return t, n, nil
}

func (taskMUS) Size(t Task) (size int) {
	size = ord.String.Size(t.TaskID)
	size += varint.Int.Size(int(t.Status))
	size += ord.String.Size(t.Prompt)
	size += ord.String.Size(t.OwnerID)
	size += stringSliceMUS.Size(t.DocIDs)
	size += varint.Int64.Size(timeToMicro(t.CreatedAt))
	size += ord.String.Size(t.Result)
	size += ord.String.Size(t.Error)
	size += varint.Int64.Size(timeToMicro(t.CompletedAt))
	size += ord.String.Size(t.SessionID)
	return size
}

func (taskMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	skippers := []func([]byte) (int, error){
		ord.String.Skip,        // TaskID
		varint.Int.Skip,        // Status
		ord.String.Skip,        // Prompt
		ord.String.Skip,        // OwnerID
		stringSliceMUS.Skip,    // DocIDs
		varint.Int64.Skip,      // CreatedAt
		ord.String.Skip,        // Result
		ord.String.Skip,        // Error
		varint.Int64.Skip,      // CompletedAt
		ord.String.Skip,        // SessionID
	}
	for _, skip := range skippers {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}

func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(micro int64) time.Time {
	if micro == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micro).UTC()
}
