package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	graphql "github.com/hasura/go-graphql-client"
	"golang.org/x/oauth2"
)

// GraphQLURL derives the GraphQL endpoint from a REST API root.
//
//	https://api.github.com         -> https://api.github.com/graphql
//	https://ghe.example.com/api/v3 -> https://ghe.example.com/api/graphql
func GraphQLURL(host string) string {
	host = strings.TrimRight(host, "/")
	if strings.HasSuffix(host, "/api/v3") {
		return strings.TrimSuffix(host, "/v3") + "/graphql"
	}
	return host + "/graphql"
}

// ViewerLogin returns the login of the account token belongs to.
func (c *Client) ViewerLogin(ctx context.Context, token string) (string, error) {
	hc := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   c.base,
		},
	}
	client := graphql.NewClient(GraphQLURL(c.host), hc)

	var q struct {
		Viewer struct {
			Login graphql.String
		}
	}
	if err := client.Query(ctx, &q, nil); err != nil {
		return "", fmt.Errorf("query viewer login: %w", err)
	}
	return string(q.Viewer.Login), nil
}
