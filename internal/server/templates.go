package server

import "html/template"

// indexData feeds the shell template.
type indexData struct {
	Title      string
	Scheme     string
	Stylesheet string
}

var indexTemplate = template.Must(template.New("index").Parse(pageTemplate))

// pageTemplate is the reader shell. Everything dynamic arrives over the
// websocket; the template only seeds the title and the startup theme.
const pageTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Scheme}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="/assets/app.css">
  <link rel="stylesheet" href="{{.Stylesheet}}" id="chroma-theme">
</head>
<body>
  <nav class="menu" id="menu">
    <div class="menu-header">
      <h2 class="site-title">{{.Title}}</h2>
    </div>
    <div class="menu-sections" id="menu-sections"></div>
  </nav>
  <main class="content-wrap">
    <div class="top-bar">
      <span class="page-name" id="page-name"></span>
      <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">
        <svg class="sun-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <circle cx="12" cy="12" r="5"/><line x1="12" y1="1" x2="12" y2="3"/><line x1="12" y1="21" x2="12" y2="23"/><line x1="1" y1="12" x2="3" y2="12"/><line x1="21" y1="12" x2="23" y2="12"/>
        </svg>
        <svg class="moon-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/>
        </svg>
      </button>
    </div>
    <div class="status" id="status"></div>
    <div class="reader" id="reader">
      <article class="page-content" id="page-content"></article>
    </div>
  </main>
  <aside class="outline-panel" id="outline-panel">
    <div class="outline-header">
      <span>On this page</span>
      <button class="outline-toggle" id="outline-toggle" aria-label="Toggle outline">
        <svg width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="15" y2="12"/><line x1="3" y1="18" x2="9" y2="18"/>
        </svg>
      </button>
    </div>
    <ul class="outline-list" id="outline-list"></ul>
  </aside>
  <button class="outline-reveal" id="outline-reveal" aria-label="Show outline">
    <svg width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
      <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="15" y2="12"/><line x1="3" y1="18" x2="9" y2="18"/>
    </svg>
  </button>
  <div class="toast" id="toast"></div>
  <script src="/assets/app.js"></script>
</body>
</html>`

// cssContent is the full CSS for the reader shell.
const cssContent = `/* ============ CSS Variables ============ */
:root {
  --bg: #ffffff;
  --bg-secondary: #f8f9fa;
  --bg-menu: #f1f3f5;
  --text: #212529;
  --text-secondary: #495057;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-light: #e7f5ff;
  --code-bg: #f6f8fa;
  --code-border: #e9ecef;
  --menu-width: 260px;
  --panel-width: 240px;
  --topbar-height: 52px;
  --shadow: 0 1px 3px rgba(0,0,0,0.08);
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.1);
}

[data-theme="dark"] {
  --bg: #1a1b1e;
  --bg-secondary: #212226;
  --bg-menu: #212226;
  --text: #e9ecef;
  --text-secondary: #ced4da;
  --text-muted: #868e96;
  --border: #343a40;
  --accent: #4dabf7;
  --accent-light: #1c2c3d;
  --code-bg: #161b22;
  --code-border: #2b3138;
  --shadow: 0 1px 3px rgba(0,0,0,0.4);
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.5);
}

/* ============ Base ============ */
* { box-sizing: border-box; }

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  background: var(--bg);
  color: var(--text);
}

/* ============ Menu sidebar ============ */
.menu {
  position: fixed;
  top: 0;
  left: 0;
  bottom: 0;
  width: var(--menu-width);
  background: var(--bg-menu);
  border-right: 1px solid var(--border);
  overflow-y: auto;
}

.menu-header {
  padding: 16px;
  border-bottom: 1px solid var(--border);
}

.site-title {
  margin: 0;
  font-size: 16px;
}

.menu-section-name {
  padding: 14px 16px 4px;
  font-size: 11px;
  font-weight: 600;
  text-transform: uppercase;
  letter-spacing: 0.05em;
  color: var(--text-muted);
}

.menu-page {
  display: block;
  width: 100%;
  padding: 6px 16px;
  border: none;
  background: none;
  text-align: left;
  font-size: 14px;
  color: var(--text-secondary);
  cursor: pointer;
}

.menu-page:hover { background: var(--accent-light); }

.menu-page.current {
  color: var(--accent);
  font-weight: 600;
}

/* ============ Content ============ */
.content-wrap {
  margin-left: var(--menu-width);
}

.top-bar {
  position: sticky;
  top: 0;
  display: flex;
  align-items: center;
  justify-content: space-between;
  height: var(--topbar-height);
  padding: 0 20px;
  background: var(--bg);
  border-bottom: 1px solid var(--border);
  z-index: 10;
}

.page-name {
  font-size: 13px;
  color: var(--text-muted);
}

.theme-toggle, .outline-toggle, .outline-reveal {
  display: flex;
  align-items: center;
  padding: 6px;
  border: none;
  border-radius: 6px;
  background: none;
  color: var(--text-secondary);
  cursor: pointer;
}

.theme-toggle:hover, .outline-toggle:hover, .outline-reveal:hover {
  background: var(--bg-secondary);
}

[data-theme="light"] .moon-icon { display: none; }
[data-theme="dark"] .sun-icon { display: none; }

.status {
  display: none;
  padding: 16px 32px;
  font-size: 14px;
  color: var(--text-muted);
}

.status.visible { display: block; }

.status.error { color: #e03131; }

.reader {
  height: calc(100vh - var(--topbar-height));
  overflow-y: auto;
  scroll-behavior: smooth;
}

.page-content {
  max-width: 760px;
  margin: 0 auto;
  padding: 24px 32px 60vh;
  line-height: 1.65;
}

.page-content h1, .page-content h2, .page-content h3,
.page-content h4, .page-content h5, .page-content h6 {
  scroll-margin-top: 8px;
}

.page-content a { color: var(--accent); }

.page-content blockquote {
  margin: 0;
  padding: 2px 16px;
  border-left: 3px solid var(--border);
  color: var(--text-secondary);
}

.page-content table {
  border-collapse: collapse;
}

.page-content th, .page-content td {
  padding: 6px 12px;
  border: 1px solid var(--border);
}

/* ============ Code blocks ============ */
.code-header {
  display: flex;
  align-items: center;
  justify-content: space-between;
  margin-top: 16px;
  padding: 6px 12px;
  background: var(--bg-secondary);
  border: 1px solid var(--code-border);
  border-bottom: none;
  border-radius: 8px 8px 0 0;
}

.code-lang {
  font-size: 12px;
  color: var(--text-muted);
}

.code-copy {
  padding: 2px 10px;
  border: 1px solid var(--border);
  border-radius: 5px;
  background: var(--bg);
  font-size: 12px;
  color: var(--text-secondary);
  cursor: pointer;
}

.code-copy:hover { border-color: var(--accent); color: var(--accent); }

.code-header + pre {
  margin-top: 0;
  border-radius: 0 0 8px 8px;
}

.page-content pre {
  padding: 12px 16px;
  background: var(--code-bg);
  border: 1px solid var(--code-border);
  border-radius: 8px;
  overflow-x: auto;
  font-size: 13px;
}

.page-content code {
  font-family: "SF Mono", SFMono-Regular, Consolas, monospace;
}

.page-content p code, .page-content li code {
  padding: 1px 5px;
  background: var(--code-bg);
  border-radius: 4px;
  font-size: 0.9em;
}

/* ============ Outline panel ============ */
.outline-panel {
  position: fixed;
  top: calc(var(--topbar-height) + 16px);
  right: 16px;
  width: var(--panel-width);
  max-height: calc(100vh - var(--topbar-height) - 32px);
  overflow-y: auto;
  background: var(--bg);
  border: 1px solid var(--border);
  border-radius: 10px;
  box-shadow: var(--shadow-lg);
  transition: transform 0.2s ease, opacity 0.2s ease;
  z-index: 20;
}

.outline-panel.collapsed {
  transform: translateX(calc(100% + 24px));
  opacity: 0;
  pointer-events: none;
}

.outline-header {
  display: flex;
  align-items: center;
  justify-content: space-between;
  padding: 10px 14px;
  border-bottom: 1px solid var(--border);
  font-size: 12px;
  font-weight: 600;
  text-transform: uppercase;
  letter-spacing: 0.05em;
  color: var(--text-muted);
}

.outline-list {
  margin: 0;
  padding: 8px 0;
  list-style: none;
}

.outline-item {
  padding: 4px 14px;
  font-size: 13px;
  color: var(--text-secondary);
  cursor: pointer;
  border-left: 2px solid transparent;
}

.outline-item:hover { color: var(--accent); }

.outline-item.active {
  color: var(--accent);
  border-left-color: var(--accent);
  background: var(--accent-light);
}

.outline-item.level-2 { padding-left: 26px; }
.outline-item.level-3 { padding-left: 38px; }
.outline-item.level-4 { padding-left: 50px; }
.outline-item.level-5 { padding-left: 62px; }
.outline-item.level-6 { padding-left: 74px; }

.outline-reveal {
  position: fixed;
  top: calc(var(--topbar-height) + 16px);
  right: 16px;
  display: none;
  border: 1px solid var(--border);
  background: var(--bg);
  box-shadow: var(--shadow);
  z-index: 19;
}

.outline-reveal.visible { display: flex; }

/* ============ Toast ============ */
.toast {
  position: fixed;
  bottom: 24px;
  left: 50%;
  transform: translateX(-50%) translateY(8px);
  padding: 8px 18px;
  background: var(--text);
  color: var(--bg);
  border-radius: 8px;
  font-size: 13px;
  opacity: 0;
  pointer-events: none;
  transition: opacity 0.2s ease, transform 0.2s ease;
  z-index: 30;
}

.toast.visible {
  opacity: 1;
  transform: translateX(-50%) translateY(0);
}`

// jsContent is the reader shell logic: websocket wiring, intersection
// reporting, theme and resize mirroring, copy buttons, and the outline.
const jsContent = `(function() {
  "use strict";

  var ws = null;
  var epoch = 0;
  var observer = null;
  var currentPage = "";

  var reader = document.getElementById("reader");
  var article = document.getElementById("page-content");
  var status = document.getElementById("status");
  var pageName = document.getElementById("page-name");
  var panel = document.getElementById("outline-panel");
  var reveal = document.getElementById("outline-reveal");
  var outlineList = document.getElementById("outline-list");
  var menuSections = document.getElementById("menu-sections");
  var toast = document.getElementById("toast");

  // ===== WebSocket =====
  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    // Carry ?page= through so deep links open on the right page.
    ws = new WebSocket(proto + location.host + "/ws/reader" + location.search);

    ws.addEventListener("open", function() {
      reportTheme();
      reportResize();
    });

    ws.addEventListener("message", function(ev) {
      var msg;
      try { msg = JSON.parse(ev.data); } catch(e) { return; }
      switch (msg.type) {
        case "state": applyState(msg); break;
        case "active": markActive(msg.id); break;
        case "collapsed": setCollapsed(msg.collapsed); break;
        case "stylesheet": swapStylesheet(msg.href); break;
        case "html": applyHTML(msg.html); break;
        case "scroll": scrollToHeading(msg.id); break;
        case "error": showToast(msg.message); break;
      }
    });

    ws.addEventListener("close", function() {
      showToast("Connection lost, reconnecting...");
      setTimeout(connect, 1500);
    });
  }

  function send(msg) {
    if (ws && ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify(msg));
    }
  }

  // ===== State handling =====
  function applyState(state) {
    epoch = state.epoch;
    currentPage = state.page || "";
    pageName.textContent = currentPage;
    markCurrentMenuPage();
    document.documentElement.setAttribute("data-theme", state.theme);
    swapStylesheet(state.stylesheet);
    setCollapsed(state.collapsed);
    renderOutline(state.outline || []);

    if (state.loading) {
      showStatus("Loading " + currentPage + "...", false);
      article.innerHTML = "";
      return;
    }
    if (state.err) {
      showStatus(state.err, true);
      article.innerHTML = "";
      return;
    }
    hideStatus();
    applyHTML(state.html);
  }

  function applyHTML(html) {
    article.innerHTML = html;
    bindCopyButtons();
    observeHeadings();
    send({ type: "mounted" });
  }

  function showStatus(text, isError) {
    status.textContent = text;
    status.className = "status visible" + (isError ? " error" : "");
  }

  function hideStatus() {
    status.className = "status";
  }

  // ===== Intersection tracking =====
  function observeHeadings() {
    if (observer) {
      observer.disconnect();
      observer = null;
    }
    if (!("IntersectionObserver" in window)) {
      send({ type: "nosupport", capability: "intersection-observer" });
      return;
    }

    observer = new IntersectionObserver(function(entries) {
      entries.forEach(function(entry) {
        var id = entry.target.getAttribute("id");
        if (!id) return;
        send({ type: "intersect", epoch: epoch, key: id, entering: entry.isIntersecting });
      });
    }, { root: reader, threshold: 0.5 });

    article.querySelectorAll("h1[id],h2[id],h3[id],h4[id],h5[id],h6[id]").forEach(function(h) {
      observer.observe(h);
    });
  }

  // ===== Resize mirroring =====
  function reportResize() {
    // Measure the content column, not the scroll container: the reader
    // spans the full width, so its right edge always sits past the panel.
    var contentRect = article.getBoundingClientRect();
    var panelRect = panel.getBoundingClientRect();
    send({ type: "resize", content_right: contentRect.right, panel_left: panelRect.left });
  }

  window.addEventListener("resize", reportResize);

  // ===== Theme mirroring =====
  function reportTheme() {
    var dark = window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches;
    send({ type: "theme", scheme: dark ? "dark" : "light" });
  }

  if (window.matchMedia) {
    window.matchMedia("(prefers-color-scheme: dark)").addEventListener("change", reportTheme);
  }

  document.getElementById("theme-toggle").addEventListener("click", function() {
    var current = document.documentElement.getAttribute("data-theme") || "light";
    send({ type: "theme", scheme: current === "dark" ? "light" : "dark" });
  });

  function swapStylesheet(href) {
    if (!href) return;
    var current = document.getElementById("chroma-theme");
    if (current && current.getAttribute("href") === href) return;
    // Remove before insert: exactly one highlight stylesheet at a time.
    if (current) current.parentNode.removeChild(current);
    var link = document.createElement("link");
    link.rel = "stylesheet";
    link.id = "chroma-theme";
    link.href = href;
    document.head.appendChild(link);
    document.documentElement.setAttribute("data-theme", href.indexOf("dark") !== -1 ? "dark" : "light");
  }

  // ===== Copy buttons =====
  function bindCopyButtons() {
    article.querySelectorAll(".code-copy").forEach(function(btn) {
      btn.addEventListener("click", function() {
        var header = btn.closest(".code-header");
        var pre = header ? header.nextElementSibling : null;
        var code = pre ? pre.querySelector("code") : null;
        if (!code) return;
        if (!navigator.clipboard) {
          showToast("Copy failed: clipboard unavailable");
          return;
        }
        navigator.clipboard.writeText(code.textContent).then(function() {
          btn.textContent = "Copied!";
          showToast("Copied to clipboard");
          setTimeout(function() { btn.textContent = "Copy"; }, 2000);
        }).catch(function() {
          showToast("Copy failed");
        });
      });
    });
  }

  var toastTimer = null;
  function showToast(message) {
    toast.textContent = message;
    toast.classList.add("visible");
    if (toastTimer) clearTimeout(toastTimer);
    toastTimer = setTimeout(function() { toast.classList.remove("visible"); }, 2400);
  }

  // ===== Outline panel =====
  function renderOutline(outline) {
    outlineList.innerHTML = "";
    outline.forEach(function(entry) {
      var li = document.createElement("li");
      li.className = "outline-item level-" + entry.level + (entry.active ? " active" : "");
      li.textContent = entry.title;
      li.setAttribute("data-id", entry.id);
      li.addEventListener("click", function() {
        send({ type: "scrollTo", id: entry.id });
      });
      outlineList.appendChild(li);
    });
  }

  function markActive(id) {
    outlineList.querySelectorAll(".outline-item").forEach(function(item) {
      item.classList.toggle("active", item.getAttribute("data-id") === id);
    });
  }

  function setCollapsed(collapsed) {
    panel.classList.toggle("collapsed", collapsed);
    reveal.classList.toggle("visible", collapsed);
  }

  function scrollToHeading(id) {
    var el = document.getElementById(id);
    if (el) el.scrollIntoView({ behavior: "smooth", block: "start" });
  }

  document.getElementById("outline-toggle").addEventListener("click", function() {
    send({ type: "toggle" });
  });
  reveal.addEventListener("click", function() {
    send({ type: "toggle" });
  });

  // ===== Menu =====
  function loadMenu() {
    fetch("/api/menu")
      .then(function(r) { return r.json(); })
      .then(function(menu) { renderMenu(menu.sections || []); })
      .catch(function() { showToast("Menu unavailable"); });
  }

  function renderMenu(sections) {
    menuSections.innerHTML = "";
    sections.forEach(function(section) {
      var name = document.createElement("div");
      name.className = "menu-section-name";
      name.textContent = section.name;
      if (section.description) name.title = section.description;
      menuSections.appendChild(name);

      (section.pages || []).forEach(function(page) {
        var btn = document.createElement("button");
        btn.className = "menu-page";
        btn.textContent = page.title;
        btn.setAttribute("data-page", page.page);
        btn.addEventListener("click", function() {
          send({ type: "navigate", page: page.page });
        });
        menuSections.appendChild(btn);
      });
    });
    markCurrentMenuPage();
  }

  function markCurrentMenuPage() {
    menuSections.querySelectorAll(".menu-page").forEach(function(btn) {
      btn.classList.toggle("current", btn.getAttribute("data-page") === currentPage);
    });
  }

  loadMenu();
  connect();
})();`
