package webui

// settingsPage is the settings window. It renders whatever state document
// the tray pushes over /ws and sends IPC messages back the same way.
const settingsPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>clipdock</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
    font-family: -apple-system, BlinkMacSystemFont, sans-serif;
    background: #1e1e1e;
    color: #e0e0e0;
    display: flex;
    height: 100vh;
    overflow: hidden;
}
.sidebar {
    width: 200px;
    background: #181818;
    border-right: 1px solid #333;
    padding: 16px 0;
    flex-shrink: 0;
}
.sidebar-item {
    padding: 10px 20px;
    cursor: pointer;
    font-size: 13px;
    color: #aaa;
    border-left: 3px solid transparent;
}
.sidebar-item:hover { background: #252525; color: #e0e0e0; }
.sidebar-item.active {
    background: #252525;
    color: #fff;
    border-left-color: #0078d4;
}
.content { flex: 1; padding: 24px 32px; overflow-y: auto; }
.panel { display: none; }
.panel.active { display: block; }
h2 { font-size: 18px; font-weight: 600; margin-bottom: 20px; }
.row {
    display: flex;
    align-items: center;
    gap: 8px;
    padding: 8px 0;
    border-bottom: 1px solid #2a2a2a;
    font-size: 13px;
}
.row .text { flex: 1; white-space: pre-wrap; word-break: break-all; max-height: 4.5em; overflow: hidden; }
.row .when { color: #777; font-size: 11px; }
button {
    background: #333;
    color: #e0e0e0;
    border: 1px solid #444;
    border-radius: 4px;
    padding: 4px 10px;
    font-size: 12px;
    cursor: pointer;
}
button:hover { background: #3a3a3a; }
button.primary { background: #0078d4; border-color: #0078d4; color: #fff; }
label { display: block; font-size: 13px; margin: 12px 0 4px; color: #aaa; }
input[type=number] { background: #252525; color: #e0e0e0; border: 1px solid #444; padding: 4px 8px; width: 100px; }
.empty { color: #777; font-size: 13px; padding: 8px 0; }
#hidden { display: none; position: fixed; inset: 0; background: #1e1e1e; align-items: center; justify-content: center; }
</style>
</head>
<body>
<div class="sidebar">
  <div class="sidebar-item active" data-panel="history">Clipboard</div>
  <div class="sidebar-item" data-panel="bookmarks">Bookmarks</div>
  <div class="sidebar-item" data-panel="prefs">Preferences</div>
  <div class="sidebar-item" id="close">Close</div>
</div>
<div class="content">
  <div class="panel active" id="panel-history">
    <h2>Clipboard history <button id="clear">Clear</button></h2>
    <div id="history"></div>
  </div>
  <div class="panel" id="panel-bookmarks">
    <h2>Bookmarks</h2>
    <div id="bookmarks"></div>
  </div>
  <div class="panel" id="panel-prefs">
    <h2>Preferences</h2>
    <label>History size</label><input type="number" id="max_history" min="1">
    <label>Menu label width</label><input type="number" id="label_width" min="1">
    <label><input type="checkbox" id="include_bookmarks"> Show bookmarks in tray menu</label>
    <label><input type="checkbox" id="bookmark_icons"> Bookmark icons</label>
    <p style="margin-top:16px"><button class="primary" id="save">Save</button></p>
  </div>
</div>
<div id="hidden">clipdock is still running in the tray. You can close this tab.</div>
<script>
let ws;
let state = { history: [], bookmarks: [], settings: {} };

function ipc(msg) {
    if (ws && ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg));
}

function el(tag, cls, text) {
    const e = document.createElement(tag);
    if (cls) e.className = cls;
    if (text !== undefined) e.textContent = text;
    return e;
}

function button(label, fn) {
    const b = el('button', '', label);
    b.onclick = fn;
    return b;
}

function render() {
    const hist = document.getElementById('history');
    hist.replaceChildren();
    if (!state.history.length) hist.appendChild(el('div', 'empty', 'Nothing copied yet.'));
    state.history.forEach(h => {
        const row = el('div', 'row');
        row.appendChild(el('div', 'text', h.text));
        row.appendChild(el('span', 'when', new Date(h.copied_at).toLocaleTimeString()));
        row.appendChild(button('Copy', () => ipc({ type: 'copy_to_clipboard', content: h.text })));
        row.appendChild(button('Pin', () => ipc({ type: 'add_bookmark', content: h.text })));
        row.appendChild(button('Remove', () => ipc({ type: 'remove_history', content: h.text })));
        hist.appendChild(row);
    });

    const bms = document.getElementById('bookmarks');
    bms.replaceChildren();
    if (!state.bookmarks.length) bms.appendChild(el('div', 'empty', 'No bookmarks.'));
    state.bookmarks.forEach(b => {
        const row = el('div', 'row');
        row.appendChild(el('div', 'text', b.content));
        row.appendChild(button('Copy', () => ipc({ type: 'copy_to_clipboard', content: b.content })));
        row.appendChild(button('Unpin', () => ipc({ type: 'remove_bookmark', id: b.id })));
        bms.appendChild(row);
    });

    const s = state.settings || {};
    document.getElementById('max_history').value = s.max_history || '';
    document.getElementById('label_width').value = s.label_width || '';
    document.getElementById('include_bookmarks').checked = !!s.include_bookmarks;
    document.getElementById('bookmark_icons').checked = !!s.bookmark_icons;
}

function connect() {
    ws = new WebSocket('ws://' + location.host + '/ws');
    ws.onmessage = ev => {
        const msg = JSON.parse(ev.data);
        if (msg.type === 'state') {
            state = msg.state;
            render();
        } else if (msg.type === 'hide') {
            document.getElementById('hidden').style.display = 'flex';
            window.close();
        }
    };
    ws.onclose = () => setTimeout(connect, 1000);
}

document.querySelectorAll('.sidebar-item[data-panel]').forEach(item => {
    item.onclick = () => {
        document.querySelectorAll('.sidebar-item').forEach(i => i.classList.remove('active'));
        document.querySelectorAll('.panel').forEach(p => p.classList.remove('active'));
        item.classList.add('active');
        document.getElementById('panel-' + item.dataset.panel).classList.add('active');
    };
});
document.getElementById('close').onclick = () => ipc({ type: 'close_requested' });
document.getElementById('clear').onclick = () => ipc({ type: 'clear_history' });
document.getElementById('save').onclick = () => ipc({
    type: 'update_settings',
    settings: {
        max_history: parseInt(document.getElementById('max_history').value, 10) || 0,
        label_width: parseInt(document.getElementById('label_width').value, 10) || 0,
        include_bookmarks: document.getElementById('include_bookmarks').checked,
        bookmark_icons: document.getElementById('bookmark_icons').checked,
    },
});
window.addEventListener('beforeunload', () => ipc({ type: 'close_requested' }));

connect();
</script>
</body>
</html>
`
