package api

import (
	"context"
	"net/url"
	"slices"

	"golang.org/x/sync/errgroup"
)

// RoleEnterpriseLearner marks users whose profile may be managed by an enterprise.
const RoleEnterpriseLearner = "enterprise_learner"

// preferenceFields are saved through the preferences endpoint, not the account.
var preferenceFields = map[string]bool{
	"timeZone": true,
}

type enterpriseLearners struct {
	Results []struct {
		EnterpriseCustomer struct {
			Name                   string `json:"name"`
			SyncLearnerProfileData bool   `json:"sync_learner_profile_data"`
		} `json:"enterprise_customer"`
	} `json:"results"`
}

// GetSettings loads the account, preferences, third-party auth providers and
// time zones of username concurrently. The profile data manager is looked up
// only for enterprise learners.
func (c *Client) GetSettings(ctx context.Context, username string, userRoles []string) (*Settings, error) {
	var account, preferences map[string]interface{}
	ret := &Settings{}
	escaped := url.PathEscape(username)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return c.getJSON(gctx, "/api/user/v1/accounts/"+escaped, &account)
	})
	group.Go(func() error {
		return c.getJSON(gctx, "/api/user/v1/preferences/"+escaped, &preferences)
	})
	group.Go(func() error {
		return c.getJSON(gctx, "/api/third_party_auth/v0/providers/user/"+escaped+"/", &ret.ThirdPartyAuthProviders)
	})
	group.Go(func() error {
		return c.getJSON(gctx, "/api/user/v1/preferences/time_zones/", &ret.TimeZones)
	})
	if slices.Contains(userRoles, RoleEnterpriseLearner) {
		group.Go(func() error {
			var learners enterpriseLearners
			if err := c.getJSON(gctx, "/enterprise/api/v1/enterprise-learner/?username="+url.QueryEscape(username), &learners); err != nil {
				return err
			}
			if len(learners.Results) > 0 && learners.Results[0].EnterpriseCustomer.SyncLearnerProfileData {
				ret.ProfileDataManager = learners.Results[0].EnterpriseCustomer.Name
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	ret.Values = camelCaseValues(account)
	for k, v := range camelCaseValues(preferences) {
		ret.Values[k] = v
	}
	for _, key := range derivedKeys {
		delete(ret.Values, key)
	}
	return ret, nil
}

// PatchSettings saves commitData for username and returns the saved values.
// Preference fields go to the preferences endpoint, the rest to the account.
func (c *Client) PatchSettings(ctx context.Context, username string, commitData CommitData) (Values, error) {
	accountPatch := map[string]interface{}{}
	preferencePatch := map[string]interface{}{}
	for k, v := range commitData {
		if preferenceFields[k] {
			preferencePatch[k] = v
			continue
		}
		accountPatch[k] = v
	}

	escaped := url.PathEscape(username)
	var account map[string]interface{}
	group, gctx := errgroup.WithContext(ctx)
	if len(accountPatch) > 0 {
		group.Go(func() error {
			return c.patchJSON(gctx, "/api/user/v1/accounts/"+escaped, snakeCaseValues(accountPatch), &account)
		})
	}
	if len(preferencePatch) > 0 {
		group.Go(func() error {
			return c.patchJSON(gctx, "/api/user/v1/preferences/"+escaped, snakeCaseValues(preferencePatch), nil)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	ret := camelCaseValues(account)
	for k, v := range preferencePatch {
		ret[k] = v
	}
	return ret, nil
}
