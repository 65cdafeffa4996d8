package dhtactor

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xiej2520/orcanet-market-go/pkg/market"
)

// recordNamespace prefixes every market key the way content-routing DHTs
// namespace their records, so the validator can tell market records
// apart from any other use of the same swarm's DHT.
const recordNamespace = "/market/"

// namespacedKey returns the libp2p record key for a market key.
func namespacedKey(key market.Key) string {
	return recordNamespace + string(key)
}

// marketKeyFromRecord strips the namespace prefix, returning ok=false if
// the record is not one of ours.
func marketKeyFromRecord(recordKey string) (market.Key, bool) {
	if !strings.HasPrefix(recordKey, recordNamespace) {
		return "", false
	}
	return market.Key(strings.TrimPrefix(recordKey, recordNamespace)), true
}

// errRejectedRecord is returned by the validator for any ingress PUT
// that fails §4.3's validation policy, including records that fail to
// decode — a decode failure is itself a rejection, per spec.
var errRejectedRecord = errors.New("dhtactor: record rejected by validation policy")

// recordValidator implements the swarm library's record.Validator
// contract: Validate is called synchronously, on the swarm's own
// goroutine, whenever an inbound PUT_VALUE arrives for a key this DHT
// node is responsible for.
type recordValidator struct {
	store  *recordStore
	clock  market.Clock
	window uint64
	log    *logrus.Entry
}

func newRecordValidator(store *recordStore, clock market.Clock, window uint64, log *logrus.Entry) *recordValidator {
	return &recordValidator{store: store, clock: clock, window: window, log: log}
}

// Validate runs §4.3's policy against the existing stored value for key
// and the proposed replacement, committing proposed to the local store
// on acceptance.
func (v *recordValidator) Validate(recordKey string, value []byte) error {
	key, ok := marketKeyFromRecord(recordKey)
	if !ok {
		return errRejectedRecord
	}

	proposed, err := market.Decode(value)
	if err != nil {
		v.log.WithFields(logrus.Fields{"key": string(key), "error": err}).
			Warn("ingress PUT: decode failed, rejecting")
		return errRejectedRecord
	}

	current, _ := v.store.get(key)

	if !market.ValidatePut(current, proposed, key, v.clock.Now(), v.window) {
		v.log.WithField("key", string(key)).Warn("ingress PUT: rejected by validation policy")
		return errRejectedRecord
	}

	v.store.put(key, proposed)
	return nil
}

// Select implements record.Validator's tie-breaking hook, used by the
// swarm library when it holds multiple candidate values for the same
// key (e.g. while reconciling quorum responses). Among the candidates we
// prefer the one whose advertisements carry the furthest-out total
// expiration, which is exactly what repeated ValidatePut acceptance
// already converges a key's stored value towards.
func (v *recordValidator) Select(recordKey string, values [][]byte) (int, error) {
	best := 0
	var bestList market.AdvertisementList
	for i, raw := range values {
		list, err := market.Decode(raw)
		if err != nil {
			continue
		}
		if i == 0 || totalExpiration(list) > totalExpiration(bestList) {
			best = i
			bestList = list
		}
	}
	return best, nil
}

func totalExpiration(list market.AdvertisementList) uint64 {
	var sum uint64
	for _, a := range list {
		sum += a.Expiration
	}
	return sum
}
