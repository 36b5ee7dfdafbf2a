package models

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/db"
)

// ErrAlreadyExists is returned from Reserve transactions when the target
// node already holds a value.
var ErrAlreadyExists = errors.New("node already exists")

// StoreNode is one child of an ordered query result, in store order.
type StoreNode struct {
	Key string
	Raw json.RawMessage
}

// TreeStore is the narrow slice of the realtime database the repositories
// need: one-shot reads, full overwrites, push-key generation, partial merges,
// ordered last-N queries and create-if-absent reservations. The production
// implementation wraps the Firebase Realtime Database client; tests run
// against MemoryStore.
type TreeStore interface {
	Get(ctx context.Context, path string, v any) error
	Set(ctx context.Context, path string, v any) error
	Push(ctx context.Context, path string, v any) (string, error)
	Update(ctx context.Context, path string, fields map[string]any) error
	OrderedLast(ctx context.Context, path, child string, limit int) ([]StoreNode, error)
	// Reserve writes v at path only if the node is currently absent.
	// Returns false when the node was already taken.
	Reserve(ctx context.Context, path string, v any) (bool, error)
}

type rtdbStore struct {
	client *db.Client
}

// NewRTDBStore wraps a Firebase Realtime Database client as a TreeStore.
func NewRTDBStore(client *db.Client) TreeStore {
	return &rtdbStore{client: client}
}

func (s *rtdbStore) Get(ctx context.Context, path string, v any) error {
	return s.client.NewRef(path).Get(ctx, v)
}

func (s *rtdbStore) Set(ctx context.Context, path string, v any) error {
	return s.client.NewRef(path).Set(ctx, v)
}

func (s *rtdbStore) Push(ctx context.Context, path string, v any) (string, error) {
	ref, err := s.client.NewRef(path).Push(ctx, v)
	if err != nil {
		return "", err
	}
	return ref.Key, nil
}

func (s *rtdbStore) Update(ctx context.Context, path string, fields map[string]any) error {
	return s.client.NewRef(path).Update(ctx, fields)
}

func (s *rtdbStore) OrderedLast(ctx context.Context, path, child string, limit int) ([]StoreNode, error) {
	nodes, err := s.client.NewRef(path).OrderByChild(child).LimitToLast(limit).GetOrdered(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StoreNode, 0, len(nodes))
	for _, n := range nodes {
		var raw json.RawMessage
		if err := n.Unmarshal(&raw); err != nil {
			return nil, err
		}
		out = append(out, StoreNode{Key: n.Key(), Raw: raw})
	}
	return out, nil
}

func (s *rtdbStore) Reserve(ctx context.Context, path string, v any) (bool, error) {
	err := s.client.NewRef(path).Transaction(ctx, func(node db.TransactionNode) (any, error) {
		var cur json.RawMessage
		if err := node.Unmarshal(&cur); err != nil {
			return nil, err
		}
		if len(cur) > 0 && string(cur) != "null" {
			return nil, ErrAlreadyExists
		}
		return v, nil
	})
	if errors.Is(err, ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Tree layout, unchanged from the data the web client already wrote:
// users/{uid}/discotecas/{venueID}/eventos/{eventID}/{tickets|colaboradores|bitacora}/{key}.
// codeIndex/{secureCode} is the secondary index resolving a ticket code to
// its location in one read.

func UsersPath() string { return "users" }

func VenuesPath(ownerUID string) string {
	return fmt.Sprintf("users/%s/discotecas", ownerUID)
}

func VenuePath(ownerUID, venueID string) string {
	return fmt.Sprintf("users/%s/discotecas/%s", ownerUID, venueID)
}

func EventsPath(ownerUID, venueID string) string {
	return VenuePath(ownerUID, venueID) + "/eventos"
}

func EventPath(ownerUID, venueID, eventID string) string {
	return EventsPath(ownerUID, venueID) + "/" + eventID
}

func TicketsPath(ownerUID, venueID, eventID string) string {
	return EventPath(ownerUID, venueID, eventID) + "/tickets"
}

func TicketPath(ownerUID, venueID, eventID, ticketID string) string {
	return TicketsPath(ownerUID, venueID, eventID) + "/" + ticketID
}

func CollaboratorsPath(ownerUID, venueID, eventID string) string {
	return EventPath(ownerUID, venueID, eventID) + "/colaboradores"
}

func CollaboratorPath(ownerUID, venueID, eventID, email string) string {
	return CollaboratorsPath(ownerUID, venueID, eventID) + "/" + CollaboratorKey(email)
}

func BitacoraPath(ownerUID, venueID, eventID string) string {
	return EventPath(ownerUID, venueID, eventID) + "/bitacora"
}

func CodeIndexPath(secureCode string) string {
	return "codeIndex/" + secureCode
}

// NowMillis returns the current time in Unix milliseconds, the timestamp
// representation stored throughout the tree.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// pushKeyAlphabet sorts in ASCII order, so keys minted later compare greater.
const pushKeyAlphabet = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// NewPushKey mints a chronologically ordered child key client-side, the way
// the web SDK's push() does: 8 timestamp characters followed by 12 random
// ones. Minting a key writes nothing; the node exists only once a record is
// stored under it.
func NewPushKey() string {
	var b [20]byte
	now := NowMillis()
	for i := 7; i >= 0; i-- {
		b[i] = pushKeyAlphabet[now&63]
		now >>= 6
	}
	var r [12]byte
	if _, err := rand.Read(r[:]); err != nil {
		seed := NowMillis()
		for i := range r {
			r[i] = byte(seed >> (uint(i%8) * 8))
		}
	}
	for i, v := range r {
		b[8+i] = pushKeyAlphabet[int(v)&63]
	}
	return string(b[:])
}
