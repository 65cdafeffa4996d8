// Package market implements the data model, record codec, and validation
// policy of the file-discovery market: an ordered, per-key list of
// advertisements replicated as DHT record values.
package market

// User is the logical identity of a seller advertising a file.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IP    string `json:"ip"`
	Port  uint32 `json:"port"`
	Price uint64 `json:"price"`
}

// Advertisement is one seller's offer to hold a file until Expiration.
type Advertisement struct {
	User       User   `json:"user"`
	FileHash   string `json:"file_hash"`
	Expiration uint64 `json:"expiration"`
}

// AdvertisementList is the complete value stored under a DHT key: an
// ordered sequence of advertisements in the authoring peer's insertion
// order. Within one list, User.ID values are unique.
type AdvertisementList []Advertisement

// Key is the content hash used both as the DHT key and as the FileHash
// field of every advertisement stored under it.
type Key string

// ByUser returns the advertisement in the list with the given user id,
// and whether one was found.
func (l AdvertisementList) ByUser(userID string) (Advertisement, bool) {
	for _, a := range l {
		if a.User.ID == userID {
			return a, true
		}
	}
	return Advertisement{}, false
}

// WithoutExpiredOrUser returns a copy of l with every advertisement
// removed that either belongs to userID or has expired before now
// (Expiration < now); an entry expiring exactly at now is kept.
func (l AdvertisementList) WithoutExpiredOrUser(userID string, now uint64) AdvertisementList {
	out := make(AdvertisementList, 0, len(l))
	for _, a := range l {
		if a.User.ID == userID || a.Expiration < now {
			continue
		}
		out = append(out, a)
	}
	return out
}

// WithoutExpired returns a copy of l with every expired advertisement
// (Expiration <= now) removed, preserving order.
func (l AdvertisementList) WithoutExpired(now uint64) AdvertisementList {
	out := make(AdvertisementList, 0, len(l))
	for _, a := range l {
		if a.Expiration > now {
			out = append(out, a)
		}
	}
	return out
}

// Users returns the User field of every advertisement, in list order.
func (l AdvertisementList) Users() []User {
	users := make([]User, len(l))
	for i, a := range l {
		users[i] = a.User
	}
	return users
}
