package viewer

import "net/http"

// ServePage serves the standalone viewer page. It expects the frame socket
// at /ws on the same host.
func ServePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(viewerHTML))
}

const viewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<title>cortexface viewer</title>
<style>
  body { margin: 0; background: #000; color: #9fb8c8; font-family: monospace;
         display: flex; flex-direction: column; align-items: center; }
  #frame { margin-top: 24px; border: 1px solid #10242e; }
  #status { margin: 12px; }
</style>
</head>
<body>
<img id="frame" alt="face"/>
<div id="status">connecting...</div>
<script>
const img = document.getElementById('frame');
const status = document.getElementById('status');
let prev = null;

function connect() {
  const scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
  const ws = new WebSocket(scheme + location.host + '/ws');
  ws.binaryType = 'blob';
  ws.onopen = () => { status.textContent = 'live'; };
  ws.onmessage = (e) => {
    const url = URL.createObjectURL(e.data);
    img.src = url;
    if (prev) URL.revokeObjectURL(prev);
    prev = url;
  };
  ws.onclose = () => {
    status.textContent = 'disconnected, retrying...';
    setTimeout(connect, 1000);
  };
}
connect();
</script>
</body>
</html>
`
