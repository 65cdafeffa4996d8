package market

import "testing"

func adv(userID, fileHash string, exp uint64) Advertisement {
	return Advertisement{User: User{ID: userID}, FileHash: fileHash, Expiration: exp}
}

func TestValidatePutAcceptsFreshList(t *testing.T) {
	now := uint64(1000)
	proposed := AdvertisementList{adv("u1", "h", now+100)}
	if !ValidatePut(nil, proposed, "h", now, DefaultExpirationWindow) {
		t.Fatal("expected fresh list against empty current to be accepted")
	}
}

func TestValidatePutRejectsBackdated(t *testing.T) {
	now := uint64(1000)
	proposed := AdvertisementList{adv("u1", "h", now-1)}
	if ValidatePut(nil, proposed, "h", now, DefaultExpirationWindow) {
		t.Fatal("expected backdated expiration to be rejected")
	}
}

func TestValidatePutRejectsFarFuture(t *testing.T) {
	now := uint64(1000)
	proposed := AdvertisementList{adv("u1", "h", now+DefaultExpirationWindow+1)}
	if ValidatePut(nil, proposed, "h", now, DefaultExpirationWindow) {
		t.Fatal("expected far-future expiration to be rejected")
	}
}

func TestValidatePutRejectsKeyMismatch(t *testing.T) {
	now := uint64(1000)
	proposed := AdvertisementList{adv("u1", "other", now+1)}
	if ValidatePut(nil, proposed, "h", now, DefaultExpirationWindow) {
		t.Fatal("expected file_hash != key to be rejected")
	}
}

func TestValidatePutRejectsDuplicateUser(t *testing.T) {
	now := uint64(1000)
	proposed := AdvertisementList{adv("u1", "h", now+1), adv("u1", "h", now+2)}
	if ValidatePut(nil, proposed, "h", now, DefaultExpirationWindow) {
		t.Fatal("expected duplicate user id to be rejected")
	}
}

func TestValidatePutRejectsShortenedExpiration(t *testing.T) {
	now := uint64(1000)
	current := AdvertisementList{adv("u1", "h", now+1000)}
	proposed := AdvertisementList{adv("u1", "h", now+500)}
	if ValidatePut(current, proposed, "h", now, DefaultExpirationWindow) {
		t.Fatal("expected shortened expiration to be rejected")
	}
}

func TestValidatePutAcceptsExtendedExpiration(t *testing.T) {
	now := uint64(1000)
	current := AdvertisementList{adv("u1", "h", now+500)}
	proposed := AdvertisementList{adv("u1", "h", now+600)}
	if !ValidatePut(current, proposed, "h", now, DefaultExpirationWindow) {
		t.Fatal("expected extended expiration to be accepted")
	}
}

func TestValidatePutRejectsSilentDeletion(t *testing.T) {
	now := uint64(1000)
	current := AdvertisementList{adv("u1", "h", now+1000)}
	if ValidatePut(current, AdvertisementList{}, "h", now, DefaultExpirationWindow) {
		t.Fatal("expected deletion of unexpired entry to be rejected")
	}
}

func TestValidatePutAllowsDroppingExpiredEntries(t *testing.T) {
	now := uint64(1000)
	current := AdvertisementList{adv("u1", "h", now-1)}
	if !ValidatePut(current, AdvertisementList{}, "h", now, DefaultExpirationWindow) {
		t.Fatal("expected dropping an already-expired entry to be accepted")
	}
}

func TestValidatePutVacuousOnEmptyCurrent(t *testing.T) {
	now := uint64(1000)
	if !ValidatePut(AdvertisementList{}, AdvertisementList{}, "h", now, DefaultExpirationWindow) {
		t.Fatal("expected empty -> empty to be accepted")
	}
}
