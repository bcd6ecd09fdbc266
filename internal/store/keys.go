package store

import (
	"fmt"

	"github.com/booklyapp/bookly-server/internal/genre"
)

// Key layout:
//
//	book:<id>                              -> book JSON
//	idx:books:seq:<seq>                    -> id (insertion order)
//	idx:books:genre:<hex(fold(genre))>:<seq> -> id
//	status:<seq>                           -> status check JSON
//
// Sequence numbers are zero-padded so lexical order is numeric order.
const (
	bookPrefix         = "book:"
	bookIndexPrefix    = "idx:books:"
	bookBySeqPrefix    = "idx:books:seq:"
	bookByGenrePrefix  = "idx:books:genre:"
	statusCheckPrefix  = "status:"
	bookSequenceKey    = "seq:books"
	statusSequenceKey  = "seq:status"
	sequenceLeaseBatch = 100
)

func bookKey(id string) []byte {
	return []byte(bookPrefix + id)
}

func seqSuffix(seq uint64) string {
	return fmt.Sprintf("%020d", seq)
}

func bookSeqKey(seq uint64) []byte {
	return []byte(bookBySeqPrefix + seqSuffix(seq))
}

// bookGenrePrefix returns the scan prefix for all books of genre g.
func bookGenrePrefix(g string) []byte {
	return []byte(bookByGenrePrefix + genre.Key(g) + ":")
}

func bookGenreKey(g string, seq uint64) []byte {
	return append(bookGenrePrefix(g), seqSuffix(seq)...)
}

func statusCheckKey(seq uint64) []byte {
	return []byte(statusCheckPrefix + seqSuffix(seq))
}
