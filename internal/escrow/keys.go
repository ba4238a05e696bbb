package escrow

import "strconv"

const (
	projectKeyPrefix  = "project"
	budgetKeyPrefix   = "budget"
	donationKeyPrefix = "donation"
	tallyKeyPrefix    = "tally"
	voteKeyPrefix     = "vote"
	claimedKeyPrefix  = "claimed"
	refundedKeyPrefix = "refunded"
	indexKeyPrefix    = "project_index"
	depositKeyPrefix  = "deposit"

	projectCountKey = "project_count"
)

// scoped 项目名带长度前缀，避免名称中的分隔符造成键冲突
func scoped(prefix, name string) string {
	return prefix + "_" + strconv.Itoa(len(name)) + ":" + name
}

func BuildProjectKey(name string) string {
	return scoped(projectKeyPrefix, name)
}

func BuildBudgetKey(name string) string {
	return scoped(budgetKeyPrefix, name)
}

func BuildDonationKey(name, donor string) string {
	return scoped(donationKeyPrefix, name) + "_" + donor
}

func BuildTallyKey(name string) string {
	return scoped(tallyKeyPrefix, name)
}

func BuildVoteKey(name, voter string) string {
	return scoped(voteKeyPrefix, name) + "_" + voter
}

func BuildClaimedKey(name string) string {
	return scoped(claimedKeyPrefix, name)
}

func BuildRefundedKey(name, donor string) string {
	return scoped(refundedKeyPrefix, name) + "_" + donor
}

// BuildDepositKey 入账凭证不属于任何项目，全局唯一
func BuildDepositKey(ref string) string {
	return depositKeyPrefix + "_" + ref
}

func BuildIndexKey(i uint64) string {
	return indexKeyPrefix + "_" + strconv.FormatUint(i, 10)
}

func BuildProjectCountKey() string {
	return projectCountKey
}
