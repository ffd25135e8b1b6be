// Package page renders the HTML shells. The board and contacts pages are
// thin: they load the scripts that talk to the JSON API.
package page

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

func layout(title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>%s</title>
<link rel="stylesheet" href="/static/css/app.css"/>
</head>
<body>
%s
</body>
</html>
`, title, body)
		return err
	})
}

func HomePage() templ.Component {
	return layout("Join", `<main class="landing">
<h1>Join</h1>
<p>Kanban project management.</p>
<nav>
<a href="/login">Log in</a>
<a href="/board">Board</a>
</nav>
</main>`)
}

func LoginPage() templ.Component {
	return layout("Join - Log in", `<main class="auth">
<h1>Log in</h1>
<form id="login-form">
<label>Email <input type="email" name="email" required/></label>
<label>Password <input type="password" name="password" required/></label>
<button type="submit">Log in</button>
</form>
<p>No account? <a href="#" id="show-signup">Sign up</a></p>
<form id="signup-form" hidden>
<label>Name <input type="text" name="name" required/></label>
<label>Email <input type="email" name="email" required/></label>
<label>Password <input type="password" name="password" minlength="8" required/></label>
<button type="submit">Sign up</button>
</form>
<script src="/static/js/auth.js"></script>
</main>`)
}

func BoardPage() templ.Component {
	return layout("Join - Board", `<main class="board">
<header class="board-header">
<h1>Board</h1>
<div id="board-summary"></div>
</header>
<section class="columns">
<div class="column" id="todo-list" data-container="todo-list"><h2>To do</h2></div>
<div class="column" id="inprogress-list" data-container="inprogress-list"><h2>In progress</h2></div>
<div class="column" id="awaitfeedback-list" data-container="awaitfeedback-list"><h2>Await feedback</h2></div>
<div class="column" id="done-list" data-container="done-list"><h2>Done</h2></div>
</section>
<script src="/static/js/board.js"></script>
</main>`)
}

func ContactsPage() templ.Component {
	return layout("Join - Contacts", `<main class="contacts">
<h1>Contacts</h1>
<div id="contact-groups"></div>
<script src="/static/js/contacts.js"></script>
</main>`)
}
