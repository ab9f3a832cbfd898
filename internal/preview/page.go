package preview

import (
	"bytes"
	"html/template"
)

// pageData carries already escaped text; template.HTML stops html/template
// from escaping it a second time.
type pageData struct {
	Original  template.HTML
	Candidate template.HTML
}

var pageTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Code Suggestion Preview</title>
<style>
	body { padding: 20px; max-width: 960px; margin: 0 auto; font-family: sans-serif; background: #282828; color: #ebdbb2; }
	.container { display: flex; flex-direction: row; gap: 20px; }
	.code-block { flex: 1; min-width: 0; padding: 15px; border: 1px solid #928374; border-radius: 4px; }
	.title { font-weight: bold; margin-bottom: 10px; padding-bottom: 5px; border-bottom: 1px solid #928374; color: #fe8019; }
	pre { margin: 0; white-space: pre-wrap; font-family: monospace; }
	.buttons { margin-top: 20px; display: flex; justify-content: center; gap: 10px; }
	button { padding: 8px 16px; cursor: pointer; border: none; border-radius: 2px; background: #83a598; color: #282828; }
	button#reject { background: #928374; }
	#status { text-align: center; margin-top: 20px; }
	@media (max-width: 800px) { .container { flex-direction: column; } }
</style>
</head>
<body>
	<div class="container">
		<div class="code-block">
			<div class="title">Original Code:</div>
			<pre id="original">{{.Original}}</pre>
		</div>
		<div class="code-block">
			<div class="title">Suggested Code:</div>
			<pre id="candidate">{{.Candidate}}</pre>
		</div>
	</div>
	<div class="buttons">
		<button id="accept">Accept Changes</button>
		<button id="reject">Reject Changes</button>
	</div>
	<div id="status"></div>
	<script>
		let decided = false;
		function send(command) {
			if (decided) { return; }
			decided = true;
			fetch('decision', {
				method: 'POST',
				headers: { 'Content-Type': 'application/json' },
				body: JSON.stringify({ command: command })
			}).then(function () {
				document.querySelector('.buttons').remove();
				document.getElementById('status').textContent = 'Decision recorded. You can close this tab.';
			});
		}
		document.getElementById('accept').addEventListener('click', function () { send('accept'); });
		document.getElementById('reject').addEventListener('click', function () { send('reject'); });
		window.addEventListener('pagehide', function (event) {
			if (decided || event.persisted) { return; }
			navigator.sendBeacon('dismiss', new Blob(['{}'], { type: 'application/json' }));
		});
	</script>
</body>
</html>
`))

// RenderPage returns the preview document for p. Both texts pass through
// EscapeHTML before they reach the markup.
func RenderPage(original, candidate string) ([]byte, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Original:  template.HTML(EscapeHTML(original)),
		Candidate: template.HTML(EscapeHTML(candidate)),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
