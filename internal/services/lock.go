package services

// Advisory lock domains. Enrollment ids and template ids come from
// separate sequences, so bare ids would collide across the shared
// pg_advisory_xact_lock key space.
const (
	lockDomainEnrollment int64 = 1
	lockDomainTemplate   int64 = 2
)

// advisoryLockKey tags the id with its domain in the top byte. Ids keep
// their low 56 bits, far beyond any sequence here.
func advisoryLockKey(domain, id int64) int64 {
	return domain<<56 | (id & 0x00FFFFFFFFFFFFFF)
}
