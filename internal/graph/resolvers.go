package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/msomdec/bookshelf/internal/domain"
	"github.com/msomdec/bookshelf/internal/guard"
	"github.com/msomdec/bookshelf/internal/service"
)

// guarded applies policy before running next. Rejections carry the same
// message and code whatever the cause.
func (r *Resolver) guarded(policy guard.Policy, next graphql.FieldResolveFn) graphql.FieldResolveFn {
	if policy == guard.Public {
		return next
	}
	return func(p graphql.ResolveParams) (any, error) {
		ctx, err := r.guard.Authorize(p.Context, policy, guard.AuthorizationFrom(p.Context))
		if err != nil {
			return nil, toGraphQLError(p.Context, err)
		}
		p.Context = ctx
		return next(p)
	}
}

func (r *Resolver) protect(next graphql.FieldResolveFn) graphql.FieldResolveFn {
	return r.guarded(guard.RequireIdentity, next)
}

func (r *Resolver) me(p graphql.ResolveParams) (any, error) {
	return userToMap(guard.CurrentIdentity(p.Context)), nil
}

func (r *Resolver) listUsers(p graphql.ResolveParams) (any, error) {
	users, err := r.users.List(p.Context)
	if err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	out := make([]any, 0, len(users))
	for i := range users {
		out = append(out, userToMap(&users[i]))
	}
	return out, nil
}

func (r *Resolver) user(p graphql.ResolveParams) (any, error) {
	user, err := r.users.Get(p.Context, stringArg(p.Args, "id"))
	if err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	return userToMap(user), nil
}

func (r *Resolver) createUser(p graphql.ResolveParams) (any, error) {
	in := mapArg(p.Args, "input")
	user, err := r.users.Create(p.Context, service.CreateUserInput{
		Email:     stringArg(in, "email"),
		Password:  stringArg(in, "password"),
		FirstName: stringArg(in, "firstName"),
		LastName:  stringArg(in, "lastName"),
	})
	if err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	return userToMap(user), nil
}

func (r *Resolver) updateUser(p graphql.ResolveParams) (any, error) {
	in := mapArg(p.Args, "input")
	user, err := r.users.Update(p.Context, stringArg(p.Args, "id"), domain.UserUpdate{
		Email:     optionalString(in, "email"),
		FirstName: optionalString(in, "firstName"),
		LastName:  optionalString(in, "lastName"),
		IsActive:  optionalBool(in, "isActive"),
	})
	if err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	return userToMap(user), nil
}

func (r *Resolver) removeUser(p graphql.ResolveParams) (any, error) {
	if err := r.users.Remove(p.Context, stringArg(p.Args, "id")); err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	return true, nil
}

func (r *Resolver) login(p graphql.ResolveParams) (any, error) {
	in := mapArg(p.Args, "input")
	sess, err := r.auth.Login(p.Context, stringArg(in, "email"), stringArg(in, "password"))
	if err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	return sessionToMap(sess), nil
}

func (r *Resolver) refreshToken(p graphql.ResolveParams) (any, error) {
	sess, err := r.auth.Refresh(p.Context, stringArg(p.Args, "token"))
	if err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	return sessionToMap(sess), nil
}

func (r *Resolver) logout(p graphql.ResolveParams) (any, error) {
	return r.auth.Logout(p.Context), nil
}

func (r *Resolver) listBooks(p graphql.ResolveParams) (any, error) {
	books, err := r.books.List(p.Context)
	if err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	out := make([]any, 0, len(books))
	for i := range books {
		out = append(out, bookToMap(&books[i]))
	}
	return out, nil
}

func (r *Resolver) book(p graphql.ResolveParams) (any, error) {
	book, err := r.books.Get(p.Context, stringArg(p.Args, "id"))
	if err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	return bookToMap(book), nil
}

func (r *Resolver) createBook(p graphql.ResolveParams) (any, error) {
	in := mapArg(p.Args, "input")
	var price float64
	if v := optionalFloat(in, "price"); v != nil {
		price = *v
	}
	book, err := r.books.Create(p.Context, service.CreateBookInput{
		Title:       stringArg(in, "title"),
		Author:      stringArg(in, "author"),
		Description: stringArg(in, "description"),
		Price:       price,
	})
	if err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	return bookToMap(book), nil
}

func (r *Resolver) updateBook(p graphql.ResolveParams) (any, error) {
	in := mapArg(p.Args, "input")
	book, err := r.books.Update(p.Context, stringArg(p.Args, "id"), domain.BookUpdate{
		Title:       optionalString(in, "title"),
		Author:      optionalString(in, "author"),
		Description: optionalString(in, "description"),
		Price:       optionalFloat(in, "price"),
	})
	if err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	return bookToMap(book), nil
}

func (r *Resolver) deleteBook(p graphql.ResolveParams) (any, error) {
	if err := r.books.Delete(p.Context, stringArg(p.Args, "id")); err != nil {
		return nil, toGraphQLError(p.Context, err)
	}
	return true, nil
}

func mapArg(args map[string]any, key string) map[string]any {
	m, _ := args[key].(map[string]any)
	return m
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func optionalString(args map[string]any, key string) *string {
	s, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func optionalBool(args map[string]any, key string) *bool {
	b, ok := args[key].(bool)
	if !ok {
		return nil
	}
	return &b
}

func optionalFloat(args map[string]any, key string) *float64 {
	var f float64
	switch v := args[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	default:
		return nil
	}
	return &f
}
