package services

import "testing"

func TestAdvisoryLockKeySeparatesDomains(t *testing.T) {
	if advisoryLockKey(lockDomainEnrollment, 42) == advisoryLockKey(lockDomainTemplate, 42) {
		t.Fatal("same id in different domains must not share a lock key")
	}
}

func TestAdvisoryLockKeyDistinctWithinDomain(t *testing.T) {
	seen := map[int64]int64{}
	for _, id := range []int64{1, 2, 42, 1 << 31, 1<<40 + 7} {
		key := advisoryLockKey(lockDomainEnrollment, id)
		if prev, dup := seen[key]; dup {
			t.Fatalf("ids %d and %d collide on key %d", prev, id, key)
		}
		seen[key] = id
	}
}
