package subgraph

const itemFields = `
      itemID
      data
      status
      metadata {
        props {
          label
          value
          description
          type
          isIdentifier
        }
      }
      requests(orderBy: submissionTime, orderDirection: desc) {
        requester
        challenger
        deposit
        disputeID
        disputed
        resolved
        submissionTime
        resolutionTime
        rounds {
          amountPaidRequester
          amountPaidChallenger
          hasPaidRequester
          hasPaidChallenger
          appealPeriodStart
          appealPeriodEnd
          ruling
        }
      }`

const itemsQuery = `
  query Items($first: Int!, $where: LItem_filter) {
    litems(first: $first, where: $where) {` + itemFields + `
    }
  }`

const itemQuery = `
  query Item($where: LItem_filter) {
    litems(first: 1, where: $where) {` + itemFields + `
    }
  }`

const statsQuery = `
  query RegistryStats($id: ID!) {
    lregistry(id: $id) {
      numberOfAbsent
      numberOfRegistered
      numberOfRegistrationRequested
      numberOfClearingRequested
      numberOfChallengedRegistrations
      numberOfChallengedClearing
    }
  }`
