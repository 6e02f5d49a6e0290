package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/blog/internal/blog"
	"github.com/dmitrymomot/blog/internal/handler"
	"github.com/dmitrymomot/blog/internal/logger"
	"github.com/dmitrymomot/blog/internal/middleware"
	"github.com/dmitrymomot/blog/internal/response"
	"github.com/dmitrymomot/blog/internal/session"
	"github.com/dmitrymomot/blog/internal/validator"
)

// maxFormSize caps urlencoded form bodies.
const maxFormSize = 64 << 10

func (a *App) home(ctx *Context) handler.Response {
	id := ctx.Identity()
	if !id.IsAuthenticated() {
		return a.render.page(pageHome, pageData{User: id})
	}

	feed, err := a.svc.Feed(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	return response.WithHeaders(
		a.render.page(pageFeed, pageData{Title: "All Posts", User: id, Feed: feed}),
		map[string]string{"Cache-Control": "no-store"},
	)
}

func (a *App) loginPage(ctx *Context) handler.Response {
	return a.render.page(pageLogin, pageData{Title: "Log In", User: ctx.Identity()})
}

func (a *App) logout(ctx *Context) handler.Response {
	return response.WithCookie(response.Redirect("/"), a.cookies.Expired())
}

func (a *App) login(ctx *Context) handler.Response {
	if err := parseForm(ctx); err != nil {
		return response.Error(err)
	}
	creds := blog.Credentials{
		Username: ctx.Request().PostFormValue("username"),
		Password: ctx.Request().PostFormValue("password"),
	}

	id, err := a.svc.Login(ctx, creds)
	if errors.Is(err, blog.ErrInvalidCredentials) {
		return a.render.page(pageLogin, pageData{
			Title:  "Log In",
			Errors: []string{blog.MsgInvalidCredentials},
			Form:   formValues{Username: creds.Username},
		})
	}
	if err != nil {
		return a.fail(err)
	}
	a.resetAttempts(ctx)
	return a.signIn(id)
}

// resetAttempts clears the login throttle of the caller's IP.
func (a *App) resetAttempts(ctx *Context) {
	if a.limiter == nil {
		return
	}
	ip, ok := middleware.GetClientIP(ctx)
	if !ok {
		return
	}
	if err := a.limiter.Reset(ctx, ip); err != nil {
		a.log.WarnContext(ctx, "failed to reset login attempts", logger.Error(err))
	}
}

func (a *App) register(ctx *Context) handler.Response {
	if err := parseForm(ctx); err != nil {
		return response.Error(err)
	}
	creds := blog.Credentials{
		Username: ctx.Request().PostFormValue("username"),
		Password: ctx.Request().PostFormValue("password"),
	}

	id, err := a.svc.Register(ctx, creds)
	if validator.IsValidationError(err) {
		return a.render.page(pageHome, pageData{
			Errors: validator.ExtractValidationErrors(err).Messages(),
			Form:   formValues{Username: creds.Username},
		})
	}
	if err != nil {
		return a.fail(err)
	}
	return a.signIn(id)
}

// signIn issues the session cookie and sends the user home.
func (a *App) signIn(id session.Identity) handler.Response {
	token, err := a.sessions.Issue(id)
	if err != nil {
		return a.fail(err)
	}
	c, err := a.cookies.Cookie(token)
	if err != nil {
		return a.fail(err)
	}
	return response.WithCookie(response.RedirectSeeOther("/"), c)
}

func (a *App) dashboard(ctx *Context) handler.Response {
	id := ctx.Identity()
	posts, err := a.svc.Dashboard(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	return a.render.page(pageDashboard, pageData{Title: "Dashboard", User: id, Posts: posts})
}

func (a *App) viewPost(ctx *Context) handler.Response {
	id := ctx.Identity()
	view, err := a.svc.ViewPost(ctx, id, pathID(ctx))
	if err != nil {
		return a.fail(err)
	}
	return a.render.page(pagePost, pageData{Title: view.Post.Title, User: id, View: view})
}

func (a *App) createPostPage(ctx *Context) handler.Response {
	return a.render.page(pageCreatePost, pageData{Title: "Create Post", User: ctx.Identity()})
}

func (a *App) createPost(ctx *Context) handler.Response {
	if err := parseForm(ctx); err != nil {
		return response.Error(err)
	}
	id := ctx.Identity()
	in := blog.PostInput{
		Title: ctx.Request().PostFormValue("title"),
		Body:  ctx.Request().PostFormValue("body"),
	}

	postID, err := a.svc.CreatePost(ctx, id, in)
	if validator.IsValidationError(err) {
		return a.render.page(pageCreatePost, pageData{
			Title:  "Create Post",
			User:   id,
			Errors: validator.ExtractValidationErrors(err).Messages(),
			Form:   formValues{Title: in.Title, Body: in.Body},
		})
	}
	if err != nil {
		return a.fail(err)
	}
	return response.RedirectSeeOther(postURL(postID))
}

func (a *App) editPostPage(ctx *Context) handler.Response {
	id := ctx.Identity()
	post, err := a.svc.EditablePost(ctx, id, pathID(ctx))
	if err != nil {
		return a.fail(err)
	}
	return a.render.page(pageEditPost, pageData{
		Title: "Edit Post",
		User:  id,
		Post:  post,
		Form:  formValues{Title: post.Title, Body: post.Content},
	})
}

func (a *App) editPost(ctx *Context) handler.Response {
	if err := parseForm(ctx); err != nil {
		return response.Error(err)
	}
	id := ctx.Identity()
	postID := pathID(ctx)
	in := blog.PostInput{
		Title: ctx.Request().PostFormValue("title"),
		Body:  ctx.Request().PostFormValue("body"),
	}

	err := a.svc.UpdatePost(ctx, id, postID, in)
	if validator.IsValidationError(err) {
		post, perr := a.svc.EditablePost(ctx, id, postID)
		if perr != nil {
			return a.fail(perr)
		}
		return a.render.page(pageEditPost, pageData{
			Title:  "Edit Post",
			User:   id,
			Post:   post,
			Errors: validator.ExtractValidationErrors(err).Messages(),
			Form:   formValues{Title: in.Title, Body: in.Body},
		})
	}
	if err != nil {
		return a.fail(err)
	}
	return response.RedirectSeeOther(postURL(postID))
}

func (a *App) deletePost(ctx *Context) handler.Response {
	if err := a.svc.DeletePost(ctx, ctx.Identity(), pathID(ctx)); err != nil {
		return a.fail(err)
	}
	return response.RedirectSeeOther("/")
}

// addComment always lands on the post. An empty comment is dropped without
// a message, a missing post sends the user home.
func (a *App) addComment(ctx *Context) handler.Response {
	if err := parseForm(ctx); err != nil {
		return response.Error(err)
	}
	postID, _ := strconv.ParseInt(ctx.Request().PostFormValue("postId"), 10, 64)
	in := blog.CommentInput{
		PostID: postID,
		Body:   ctx.Request().PostFormValue("body"),
	}

	err := a.svc.AddComment(ctx, ctx.Identity(), in)
	if err != nil && !validator.IsValidationError(err) {
		return a.fail(err)
	}
	return response.RedirectSeeOther(postURL(postID))
}

func (a *App) likePost(ctx *Context) handler.Response {
	postID := pathID(ctx)
	if _, err := a.svc.ToggleLike(ctx, ctx.Identity(), postID); err != nil {
		return a.fail(err)
	}
	return response.RedirectSeeOther(postURL(postID))
}

// fail maps blog outcomes to responses: authorization and missing posts
// redirect home silently, anything else goes to the error handler.
func (a *App) fail(err error) handler.Response {
	if blog.IsRedirectHome(err) {
		return response.Redirect("/")
	}
	return response.Error(err)
}

func parseForm(ctx *Context) error {
	r := ctx.Request()
	r.Body = http.MaxBytesReader(ctx.ResponseWriter(), r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return response.ErrRequestTooLarge.WithError(err)
		}
		return response.ErrBadRequest.WithError(err)
	}
	return nil
}

// pathID returns the {id} path value, or 0 when it is not a number.
func pathID(ctx *Context) int64 {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func postURL(id int64) string {
	return fmt.Sprintf("/post/%d", id)
}

// handleError renders unexpected failures with the error page.
func (a *App) handleError(ctx *Context, err error) {
	if w, ok := ctx.ResponseWriter().(interface{ Written() bool }); ok && w.Written() {
		a.log.ErrorContext(ctx, "error after response was written", logger.Error(err))
		return
	}

	httpErr := response.AsHTTPError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		a.log.ErrorContext(ctx, "request failed",
			logger.Error(err),
			logger.Path(ctx.Request().URL.Path),
			logger.StatusCode(httpErr.Status),
		)
	}

	resp := a.render.pageWithStatus(pageError, pageData{
		Title:   http.StatusText(httpErr.Status),
		User:    ctx.Identity(),
		Status:  httpErr.Status,
		Message: httpErr.Message,
	}, httpErr.Status)

	if rerr := resp(ctx.ResponseWriter(), ctx.Request()); rerr != nil {
		a.log.ErrorContext(ctx, "render error page", logger.Error(rerr))
		http.Error(ctx.ResponseWriter(), http.StatusText(httpErr.Status), httpErr.Status)
	}
}
